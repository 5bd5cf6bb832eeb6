package server

import (
	"net/http"
	"slices"
	"strings"
	"sync"
)

// BasicRouter is a small method-aware router over [http.ServeMux] that
// implements [Router].
//
// Each path keeps a method table, so one path may be registered for several
// methods. GET also answers HEAD. Other methods get a 405 listing what the
// path allows.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware

	mu    sync.RWMutex
	paths map[string]*methodTable
}

type methodTable struct {
	mu       sync.RWMutex
	handlers map[string]http.Handler
}

func (t *methodTable) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	t.mu.RLock()
	h, ok := t.handlers[req.Method]
	if !ok && req.Method == http.MethodHead {
		h, ok = t.handlers[http.MethodGet]
	}
	allow := t.allowed()
	t.mu.RUnlock()

	if !ok {
		w.Header().Set("Allow", allow)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.ServeHTTP(w, req)
}

func (t *methodTable) allowed() string {
	methods := make([]string, 0, len(t.handlers)+1)
	for m := range t.handlers {
		methods = append(methods, m)
	}
	if _, ok := t.handlers[http.MethodGet]; ok {
		if _, ok := t.handlers[http.MethodHead]; !ok {
			methods = append(methods, http.MethodHead)
		}
	}
	slices.Sort(methods)
	return strings.Join(methods, ", ")
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:   http.NewServeMux(),
		paths: make(map[string]*methodTable),
	}
}

// Use adds [Middleware] to the stack, applied in the order it's added.
//
// Middleware only wraps handlers registered after the call.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method on path, wrapped with the registered
// middleware. Registering the same method and path again replaces the handler.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	method = strings.ToUpper(method)
	wrapped := r.Apply(handler)

	r.mu.Lock()
	table, ok := r.paths[path]
	if !ok {
		table = &methodTable{handlers: make(map[string]http.Handler)}
		r.paths[path] = table
		r.mux.Handle(path, table)
	}
	r.mu.Unlock()

	table.mu.Lock()
	table.handlers[method] = wrapped
	table.mu.Unlock()
}

// HandleFunc is [BasicRouter.Handle] for a plain function.
func (r *BasicRouter) HandleFunc(method, path string, fn http.HandlerFunc) {
	r.Handle(method, path, fn)
}

// Handler registers h for every method on each of its [Handler.Routes].
func (r *BasicRouter) Handler(h Handler) {
	wrapped := r.Apply(h)

	for _, route := range h.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware, the first added
// running outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}
	return handler
}
