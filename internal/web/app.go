package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"reflect"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scandium/internal/deferred"
	"github.com/desertthunder/scandium/internal/shared"
	"github.com/gin-gonic/gin"
)

// View handles a request and returns the value to render.
type View func(c *gin.Context) (any, error)

// Route describes a registered view.
type Route struct {
	Method string
	Path   string
	View   string
}

// Options configures [New].
type Options struct {
	Config *shared.Config
	Logger *log.Logger
	// Pool overrides the pool built from THREAD_POOL_SIZE and DEFERRED_TIMEOUT.
	Pool   *deferred.Pool
	// Funcs are made available to every template.
	Funcs  template.FuncMap
}

// App is the mounted sub-application.
type App struct {
	engine    *gin.Engine
	templates *template.Template
	pool      *deferred.Pool
	logger    *log.Logger
	debug     bool

	mu     sync.RWMutex
	routes []Route
}

// New builds the sub-application from the configured static and template resources.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("%w: no configuration", shared.ErrMissingConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = shared.WithLogger(logger, "component", "web")

	static, err := shared.ResourceFS(cfg.StaticResource)
	if err != nil {
		return nil, fmt.Errorf("failed to open static resource: %w", err)
	}
	templates, err := loadTemplates(cfg.TemplateResource, opts.Funcs)
	if err != nil {
		return nil, err
	}

	if cfg.AppDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		engine:    gin.New(),
		templates: templates,
		logger:    logger,
		debug:     cfg.AppDebug,
	}
	if cfg.AllowDeferreds {
		app.pool = opts.Pool
		if app.pool == nil {
			app.pool = deferred.NewPool(cfg.ThreadPoolSize, cfg.DeferredTimeout)
		}
	}

	app.engine.SetHTMLTemplate(templates)
	app.engine.Use(
		gin.CustomRecoveryWithWriter(io.Discard, app.recovered),
		staticFiles(static),
	)

	logger.Debug("sub-application ready", "static", cfg.StaticResource, "templates", cfg.TemplateResource, "deferreds", cfg.AllowDeferreds)
	return app, nil
}

// Engine exposes the gin engine for handlers that do not fit the [View] shape.
func (a *App) Engine() *gin.Engine { return a.engine }

// Deferreds reports whether views may return pending results.
func (a *App) Deferreds() bool { return a.pool != nil }

// ServeHTTP implements [http.Handler].
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.engine.ServeHTTP(w, r)
}

// Route registers view for method and path.
func (a *App) Route(method, path string, view View) {
	name := viewName(view)
	a.mu.Lock()
	a.routes = append(a.routes, Route{Method: method, Path: path, View: name})
	a.mu.Unlock()

	if a.debug {
		a.logger.Debug("route", "method", method, "path", path, "view", name)
	}
	a.engine.Handle(method, path, a.handler(name, view))
}

func (a *App) GET(path string, view View)  { a.Route(http.MethodGet, path, view) }
func (a *App) POST(path string, view View) { a.Route(http.MethodPost, path, view) }

// Routes lists the registered views in registration order.
func (a *App) Routes() []Route {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Route(nil), a.routes...)
}

// handler adapts view to gin. Pending results are settled on the pool
// before rendering.
func (a *App) handler(name string, view View) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := view(c)
		if err == nil {
			if p, ok := result.(deferred.Pending); ok {
				result, err = a.settle(c, name, p)
			}
		}
		if err != nil {
			a.fail(c, err)
			return
		}
		if err := a.render(c, result); err != nil {
			a.fail(c, err)
		}
	}
}

func (a *App) settle(c *gin.Context, name string, p deferred.Pending) (any, error) {
	if a.pool == nil {
		return nil, fmt.Errorf("%w: %s returned a pending result", shared.ErrNoDeferreds, name)
	}
	return a.pool.Block(c.Request.Context(), p)
}

func (a *App) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, shared.ErrTimeout) {
		status = http.StatusGatewayTimeout
	}
	a.logger.Error("view failed", "method", c.Request.Method, "path", c.Request.URL.Path, "status", status, "error", err)

	_ = c.Error(err)
	body := http.StatusText(status)
	if a.debug {
		body += "\n\n" + err.Error()
	}
	c.Abort()
	c.Data(status, "text/plain; charset=utf-8", []byte(body))
}

func (a *App) recovered(c *gin.Context, recovered any) {
	a.fail(c, fmt.Errorf("panic: %v", recovered))
}

func viewName(view View) string {
	if fn := runtime.FuncForPC(reflect.ValueOf(view).Pointer()); fn != nil {
		return fn.Name()
	}
	return "unknown"
}
