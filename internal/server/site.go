package server

import (
	"net/http"

	"github.com/charmbracelet/log"
)

// InternalSegment is the root child reserved for the shell's own endpoints.
const InternalSegment = "_scandium"

// SiteOptions configures [NewSite].
type SiteOptions struct {
	Logger *log.Logger
	// Metrics, when set, records requests.
	Metrics *Metrics
	// ExposeMetrics serves Metrics at /_scandium/metrics.
	ExposeMetrics bool
}

// NewSite puts root behind a [BasicRouter] with request logging and metrics,
// and attaches the shell's internal endpoints to it.
func NewSite(root *SharedRoot, opts SiteOptions) *BasicRouter {
	router := NewBasicRouter()
	if opts.Logger != nil {
		router.Use(RequestLogger(opts.Logger))
	}
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
	}

	internal := NewBasicRouter()
	internal.HandleFunc(http.MethodGet, "/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	if opts.Metrics != nil && opts.ExposeMetrics {
		internal.Handle(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	root.PutChild(InternalSegment, internal)

	router.Handler(root)
	return router
}
