// Package harness owns everything one shell run needs: the configuration,
// the sub-application, the browser window and the HTTP listener.
//
// The pieces are built lazily. [Harness.App] and [Harness.Browser] may be
// called before [Harness.Start] to register views or inspect the window;
// Start builds whatever is still missing.
package harness

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scandium/internal/browser"
	"github.com/desertthunder/scandium/internal/repositories"
	"github.com/desertthunder/scandium/internal/server"
	"github.com/desertthunder/scandium/internal/shared"
	"github.com/desertthunder/scandium/internal/ui"
	"github.com/desertthunder/scandium/internal/web"
)

// Surface kinds understood by [Options].
const (
	SurfaceWebview  = "webview"
	SurfaceSystem   = "system"
	SurfaceHeadless = "headless"
)

// shutdownTimeout bounds the graceful server shutdown after the window closes.
const shutdownTimeout = 5 * time.Second

// Options configures [New].
type Options struct {
	Logger *log.Logger
	// SurfaceKind picks the surface when Surface is nil. Defaults to webview.
	SurfaceKind string
	Surface     browser.Surface
	Dialog      ui.SaveDialog
	// History overrides the HISTORY_DATABASE recorder.
	History browser.Recorder
}

// Harness is the explicitly owned context of one run.
type Harness struct {
	cfg     *shared.Config
	opts    Options
	logger  *log.Logger
	metrics *server.Metrics

	mu      sync.Mutex
	app     *web.App
	window  *browser.Window
	srv     *server.Server
	db      *sql.DB
	started chan struct{}
}

// New creates a harness for cfg. Nothing is built or bound yet.
func New(cfg *shared.Config, opts Options) *Harness {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.SurfaceKind == "" {
		opts.SurfaceKind = SurfaceWebview
	}
	return &Harness{
		cfg:     cfg,
		opts:    opts,
		logger:  logger,
		metrics: server.NewMetrics(),
		started: make(chan struct{}),
	}
}

// Config returns the configuration the harness was created with.
func (h *Harness) Config() *shared.Config { return h.cfg }

// Metrics returns the site's collectors.
func (h *Harness) Metrics() *server.Metrics { return h.metrics }

// App builds the sub-application on first use. Configuration errors surface
// here; a failed build is retried on the next call.
func (h *Harness) App() (*web.App, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.appLocked()
}

func (h *Harness) appLocked() (*web.App, error) {
	if h.app != nil {
		return h.app, nil
	}
	app, err := web.New(web.Options{Config: h.cfg, Logger: h.logger})
	if err != nil {
		return nil, err
	}
	h.app = app
	return app, nil
}

// Route registers view on the sub-application.
func (h *Harness) Route(method, path string, view web.View) error {
	app, err := h.App()
	if err != nil {
		return err
	}
	app.Route(method, path, view)
	return nil
}

// Browser builds the window on first use. Before [Harness.Start] has bound
// the listener the URL uses HTTP_PORT; afterwards the bound port.
func (h *Harness) Browser() (*browser.Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.browserLocked()
}

func (h *Harness) browserLocked() (*browser.Window, error) {
	if h.window != nil {
		return h.window, nil
	}

	surface, err := h.surface()
	if err != nil {
		return nil, err
	}
	history, err := h.historyLocked()
	if err != nil {
		return nil, err
	}

	window, err := browser.NewWindow(browser.Options{
		URL:        h.baseURLLocked(),
		Title:      h.cfg.WindowTitle,
		Geometry:   h.cfg.WindowGeometry,
		Icon:       h.cfg.IconResource,
		Debug:      h.cfg.Debug,
		Surface:    surface,
		Dialog:     h.opts.Dialog,
		History:    history,
		Logger:     h.logger,
		BestEffort: h.cfg.DownloadBestEffort,
	})
	if err != nil {
		return nil, err
	}
	h.window = window
	return window, nil
}

func (h *Harness) surface() (browser.Surface, error) {
	if h.opts.Surface != nil {
		return h.opts.Surface, nil
	}
	switch h.opts.SurfaceKind {
	case SurfaceHeadless:
		return browser.NewHeadlessSurface(h.logger), nil
	case SurfaceSystem:
		return browser.NewSystemSurface(h.logger), nil
	case SurfaceWebview:
		surface, err := browser.NewWebviewSurface(h.cfg.Debug, h.logger)
		if err != nil {
			h.logger.Warn("embedded browser unavailable, using the system browser", "error", err)
			return browser.NewSystemSurface(h.logger), nil
		}
		return surface, nil
	default:
		return nil, fmt.Errorf("%w: unknown surface %q", shared.ErrInvalidArgument, h.opts.SurfaceKind)
	}
}

func (h *Harness) historyLocked() (browser.Recorder, error) {
	if h.opts.History != nil {
		return h.opts.History, nil
	}
	if h.cfg.HistoryDatabase == "" {
		return nil, nil
	}
	db, err := shared.OpenHistory(h.cfg.HistoryDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to open download history: %w", err)
	}
	h.db = db
	return repositories.NewDownloadRepository(db), nil
}

func (h *Harness) baseURLLocked() string {
	if h.srv != nil {
		return fmt.Sprintf("http://localhost:%d/", h.srv.Port())
	}
	return h.cfg.BaseURL()
}

// Port is the bound port once started, else HTTP_PORT.
func (h *Harness) Port() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.srv != nil {
		return h.srv.Port()
	}
	return h.cfg.HTTPPort
}

// Started is closed once the listener is bound and the window is being shown.
func (h *Harness) Started() <-chan struct{} { return h.started }

// Start serves the sub-application and shows the window, then runs the
// window's loop until the window closes or ctx ends. It returns nil after a
// normal close. The app is built before anything is bound.
func (h *Harness) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.srv != nil {
		h.mu.Unlock()
		return fmt.Errorf("%w: harness already started", shared.ErrInvalidInput)
	}
	app, err := h.appLocked()
	if err != nil {
		h.mu.Unlock()
		return err
	}

	root := server.NewSharedRoot(app)
	site := server.NewSite(root, server.SiteOptions{
		Logger:        h.logger,
		Metrics:       h.metrics,
		ExposeMetrics: h.cfg.Debug,
	})
	srv, err := server.Listen(h.cfg.HTTPPort, site, server.ListenOptions{
		Logger:        h.logger,
		MaxConcurrent: h.cfg.ThreadPoolSize,
	})
	if err != nil {
		h.mu.Unlock()
		return err
	}
	h.srv = srv

	window, err := h.browserLocked()
	if err != nil {
		h.srv = nil
		h.mu.Unlock()
		h.shutdown(srv)
		return err
	}
	h.mu.Unlock()
	defer h.closeHistory()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(); err != nil {
			serveErr <- err
			cancel()
		}
	}()

	window.Surface().Dispatch(window.Show)
	close(h.started)
	h.logger.Info("started", "url", window.URL(), "deferreds", app.Deferreds())

	runErr := window.Run(runCtx)
	h.shutdown(srv)

	select {
	case err := <-serveErr:
		return err
	default:
	}
	if runErr != nil && runCtx.Err() == nil {
		return runErr
	}
	return nil
}

func (h *Harness) shutdown(srv *server.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		h.logger.Warn("server shutdown failed", "error", err)
	}
}

func (h *Harness) closeHistory() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db != nil {
		h.db.Close()
		h.db = nil
	}
}
