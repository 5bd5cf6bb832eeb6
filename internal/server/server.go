package server

import (
	"net/http"
)

// Middleware wraps a handler with extra behaviour such as logging or metrics.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that names the mux patterns it owns.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers behind a shared middleware stack.
type Router interface {
	http.Handler
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
}

var _ Router = (*BasicRouter)(nil)
