//go:build cgo

package browser

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scandium/internal/shared"
	webview "github.com/webview/webview_go"
)

func init() {
	// The toolkit must be driven from the main thread.
	runtime.LockOSThread()
}

// hooksJS routes window.print and links to content the page cannot show
// back into Go.
const hooksJS = `(function () {
  if (window.__scandium) { return; }
  window.__scandium = { print: window.print.bind(window) };
  window.print = function () { window.scandiumPrint(); };
  var renderable = /^(text\/html|text\/plain|image\/|text\/css|application\/javascript)/;
  document.addEventListener('click', function (ev) {
    var a = ev.target && ev.target.closest ? ev.target.closest('a[href]') : null;
    if (!a || ev.defaultPrevented || a.target === '_blank') { return; }
    var href = a.href;
    if (a.hasAttribute('download')) {
      ev.preventDefault();
      window.scandiumUnsupported(href);
      return;
    }
    if (new URL(href, location.href).origin !== location.origin) { return; }
    ev.preventDefault();
    fetch(href, { method: 'HEAD' }).then(function (res) {
      var type = res.headers.get('Content-Type') || '';
      var attachment = /attachment/i.test(res.headers.get('Content-Disposition') || '');
      if (attachment || (type && !renderable.test(type))) {
        window.scandiumUnsupported(href);
      } else {
        location.href = href;
      }
    }, function () { location.href = href; });
  }, true);
})();`

// WebviewSurface renders the page in an embedded webview.
type WebviewSurface struct {
	view   webview.WebView
	debug  bool
	logger *log.Logger

	listener Listener
	stopped  atomic.Bool
}

var _ Surface = (*WebviewSurface)(nil)

// NewWebviewSurface creates the native window. Developer tools are fixed at creation.
func NewWebviewSurface(debug bool, logger *log.Logger) (*WebviewSurface, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	view := webview.New(debug)
	if view == nil {
		return nil, shared.ErrNoRenderer
	}
	return &WebviewSurface{view: view, debug: debug, logger: shared.WithLogger(logger, "surface", "webview")}, nil
}

func (s *WebviewSurface) SetTitle(title string) { s.view.SetTitle(title) }

func (s *WebviewSurface) SetGeometry(g shared.Geometry) {
	s.view.SetSize(g.Width, g.Height, webview.HintNone)
	if g.X != 0 || g.Y != 0 {
		s.logger.Debug("window position is left to the window manager", "x", g.X, "y", g.Y)
	}
}

func (s *WebviewSurface) SetIcon(icon []byte) error {
	s.logger.Debug("window icons are not supported by the webview", "size", len(icon))
	return nil
}

func (s *WebviewSurface) SetDeveloperExtras(enabled bool) {
	if enabled != s.debug {
		s.logger.Warn("developer extras are fixed when the webview is created", "requested", enabled, "actual", s.debug)
	}
}

func (s *WebviewSurface) Install(l Listener) {
	s.listener = l
	if err := s.view.Bind("scandiumPrint", func() { l.PrintRequested() }); err != nil {
		s.logger.Error("failed to bind print hook", "error", err)
	}
	if err := s.view.Bind("scandiumUnsupported", func(url string) { l.UnsupportedContent(url) }); err != nil {
		s.logger.Error("failed to bind download hook", "error", err)
	}
	s.view.Init(hooksJS)
}

func (s *WebviewSurface) Navigate(url string) { s.view.Navigate(url) }

// Show is a no-op: the webview window is visible from creation.
func (s *WebviewSurface) Show() {}

func (s *WebviewSurface) Print() { s.view.Eval("window.__scandium && window.__scandium.print()") }

func (s *WebviewSurface) Dispatch(fn func()) { s.view.Dispatch(fn) }

// Run blocks in the toolkit's loop until the window closes or ctx ends.
func (s *WebviewSurface) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { s.view.Dispatch(s.view.Terminate) })
	defer stop()

	s.view.Run()
	s.stopped.Store(true)
	if s.listener != nil {
		s.listener.Closed()
	}
	s.view.Destroy()
	return ctx.Err()
}

func (s *WebviewSurface) Terminate() {
	if !s.stopped.Load() {
		s.view.Terminate()
	}
}
