package server

import (
	"net/http"
	"strings"
	"sync"
)

// SharedRoot routes every request into one mounted sub-application.
//
// Explicit children registered with [SharedRoot.PutChild] win over the
// sub-application for their first path segment.
type SharedRoot struct {
	app      http.Handler
	mu       sync.RWMutex
	children map[string]http.Handler
}

var _ Handler = (*SharedRoot)(nil)

// NewSharedRoot mounts app at the root.
func NewSharedRoot(app http.Handler) *SharedRoot {
	return &SharedRoot{app: app, children: map[string]http.Handler{}}
}

// PutChild serves requests whose first path segment is segment with h.
// h sees the path with that segment removed.
func (s *SharedRoot) PutChild(segment string, h http.Handler) {
	segment = strings.Trim(segment, "/")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children[segment] = http.StripPrefix("/"+segment, h)
}

// Routes mounts the root at every path.
func (s *SharedRoot) Routes() []string {
	return []string{"/"}
}

// ServeHTTP renders "/" with the sub-application and hands any other path to
// the matching child, or back to the sub-application unchanged.
func (s *SharedRoot) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segment, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if segment == "" {
		s.app.ServeHTTP(w, r)
		return
	}

	s.mu.RLock()
	child, ok := s.children[segment]
	s.mu.RUnlock()
	if ok {
		child.ServeHTTP(w, r)
		return
	}

	s.app.ServeHTTP(w, r)
}
