package browser

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scandium/internal/loop"
	"github.com/desertthunder/scandium/internal/shared"
)

// LoopSurface renders nothing itself. It hands the page to an opener (the
// system browser) and runs an [loop.Loop] until terminated or interrupted.
type LoopSurface struct {
	open   func(url string) error
	loop   *loop.Loop
	logger *log.Logger

	mu       sync.Mutex
	url      string
	title    string
	listener Listener
}

var _ Surface = (*LoopSurface)(nil)

// NewSystemSurface opens the page in the system browser.
func NewSystemSurface(logger *log.Logger) *LoopSurface {
	return newLoopSurface(shared.OpenBrowser, logger)
}

// NewHeadlessSurface only serves; the page is never opened.
func NewHeadlessSurface(logger *log.Logger) *LoopSurface {
	return newLoopSurface(nil, logger)
}

func newLoopSurface(open func(string) error, logger *log.Logger) *LoopSurface {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LoopSurface{open: open, loop: loop.New(), logger: shared.WithLogger(logger, "surface", "loop")}
}

func (s *LoopSurface) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

func (s *LoopSurface) SetGeometry(g shared.Geometry) {
	s.logger.Debug("geometry is up to the browser", "geometry", g)
}

func (s *LoopSurface) SetIcon([]byte) error { return nil }

func (s *LoopSurface) SetDeveloperExtras(enabled bool) {
	s.logger.Debug("developer tools are up to the browser", "enabled", enabled)
}

func (s *LoopSurface) Install(l Listener) {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
}

func (s *LoopSurface) Navigate(url string) {
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
}

// Show opens the current URL. Opening failures are logged; the server keeps running.
func (s *LoopSurface) Show() {
	s.mu.Lock()
	url, title := s.url, s.title
	s.mu.Unlock()

	if s.open == nil {
		s.logger.Info("serving without a window", "url", url, "title", title)
		return
	}
	if err := s.open(url); err != nil {
		s.logger.Error("failed to open browser", "url", url, "error", err)
		return
	}
	s.logger.Info("opened in system browser", "url", url, "title", title)
}

func (s *LoopSurface) Print() {
	s.logger.Warn("printing is up to the browser")
}

func (s *LoopSurface) Dispatch(fn func()) { s.loop.Dispatch(fn) }

// Run processes dispatched work until [LoopSurface.Terminate], an interrupt
// signal or ctx ends it, then reports the window closed.
func (s *LoopSurface) Run(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := s.loop.Run(sigCtx)
	if err != nil && ctx.Err() == nil {
		s.logger.Info("interrupted")
		err = nil
	}

	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l != nil {
		l.Closed()
	}
	return err
}

func (s *LoopSurface) Terminate() { s.loop.Stop() }
