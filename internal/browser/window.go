package browser

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scandium/internal/models"
	"github.com/desertthunder/scandium/internal/shared"
	"github.com/desertthunder/scandium/internal/ui"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// State is the window's lifecycle state.
type State int

const (
	Loading State = iota
	Ready
	Closed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Recorder keeps the download history.
type Recorder interface {
	Record(d *models.Download) error
}

// Options configures [NewWindow].
type Options struct {
	URL      string
	Title    string
	Geometry shared.Geometry
	Icon     shared.Resource
	// Debug enables the surface's developer extras.
	Debug    bool

	Surface Surface
	Dialog  ui.SaveDialog
	Client  *resty.Client
	Limiter *rate.Limiter
	History Recorder
	Logger  *log.Logger

	// BestEffort writes whatever body arrived even when the re-fetch failed.
	BestEffort bool
	// HomeDir is where downloads are suggested; defaults to the user's home.
	HomeDir    string
	// OnDownload is called on the loop after every finished download.
	OnDownload func(path string, err error)
}

// Window is the single browser window.
type Window struct {
	surface    Surface
	dialog     ui.SaveDialog
	client     *resty.Client
	limiter    *rate.Limiter
	history    Recorder
	logger     *log.Logger
	bestEffort bool
	homeDir    string
	onDownload func(string, error)
	url        string

	mu       sync.Mutex
	state    State
	seq      uint64
	current  uint64
	cancel   context.CancelFunc
	closedCh chan struct{}
}

var _ Listener = (*Window)(nil)

// NewWindow prepares the surface and starts loading opts.URL.
func NewWindow(opts Options) (*Window, error) {
	if opts.Surface == nil {
		return nil, fmt.Errorf("%w: no surface", shared.ErrNoRenderer)
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("%w: window url", shared.ErrMissingArgument)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	dialog := opts.Dialog
	if dialog == nil {
		dialog = ui.FixedDialog{}
	}
	client := opts.Client
	if client == nil {
		client = NewClient()
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(250*time.Millisecond), 4)
	}
	home := opts.HomeDir
	if home == "" {
		if dir, err := os.UserHomeDir(); err == nil {
			home = dir
		} else {
			home = "."
		}
	}

	w := &Window{
		surface:    opts.Surface,
		dialog:     dialog,
		client:     client,
		limiter:    limiter,
		history:    opts.History,
		logger:     shared.WithLogger(logger, "component", "browser"),
		bestEffort: opts.BestEffort,
		homeDir:    home,
		onDownload: opts.OnDownload,
		url:        opts.URL,
		closedCh:   make(chan struct{}),
	}

	w.surface.SetGeometry(opts.Geometry)
	w.surface.SetTitle(opts.Title)
	if !opts.Icon.IsZero() {
		if icon, err := shared.ReadResource(opts.Icon); err != nil {
			w.logger.Warn("failed to load window icon", "icon", opts.Icon, "error", err)
		} else if err := w.surface.SetIcon(icon); err != nil {
			w.logger.Warn("surface rejected window icon", "icon", opts.Icon, "error", err)
		}
	}
	w.surface.Install(w)
	w.surface.SetDeveloperExtras(opts.Debug)
	w.surface.Navigate(opts.URL)

	w.logger.Debug("window created", "url", opts.URL, "title", opts.Title, "geometry", opts.Geometry)
	return w, nil
}

// NewClient builds the HTTP client used to re-fetch content.
func NewClient() *resty.Client {
	return resty.New().
		SetTimeout(5*time.Minute).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetHeader("User-Agent", "scandium")
}

// URL is the address the window was opened on.
func (w *Window) URL() string { return w.url }

// Surface returns the surface the window drives.
func (w *Window) Surface() Surface { return w.surface }

// Show brings the window up. It must run on the surface's loop.
func (w *Window) Show() {
	w.surface.Show()
	w.mu.Lock()
	if w.state == Loading {
		w.state = Ready
	}
	w.mu.Unlock()
}

// State returns the lifecycle state.
func (w *Window) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Downloading reports whether a re-fetch is being tracked.
func (w *Window) Downloading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current != 0
}

// Run runs the surface's loop until the window closes or ctx ends.
func (w *Window) Run(ctx context.Context) error {
	return w.surface.Run(ctx)
}

// Done is closed once the window has been closed.
func (w *Window) Done() <-chan struct{} { return w.closedCh }

// Close closes the window as if the user had.
func (w *Window) Close() {
	w.surface.Dispatch(w.Closed)
}

// PrintRequested opens the surface's native print dialog.
func (w *Window) PrintRequested() {
	w.logger.Debug("print requested")
	w.surface.Print()
}

// Closed stops the loop. A closed window cannot be shown again.
func (w *Window) Closed() {
	w.mu.Lock()
	if w.state == Closed {
		w.mu.Unlock()
		return
	}
	w.state = Closed
	cancel := w.cancel
	w.cancel = nil
	w.current = 0
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	close(w.closedCh)
	w.logger.Debug("window closed")
	w.surface.Terminate()
}
