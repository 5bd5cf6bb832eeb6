// Package server provides the HTTP side of the shell: routing, middleware, the
// shared root resource and the loopback listener.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] runs in the order it was added: the first one added sees the request first.
//
// The [BasicRouter] implementation uses [http.ServeMux] for paths and keeps a
// method table per path, so GET implies HEAD and a wrong method gets a 405
// with an Allow header.
//
// # Shared Root
//
// [SharedRoot] presents one mounted sub-application at the server root. Every
// request, whatever its depth, reaches the sub-application with its full
// original path. Children registered with [SharedRoot.PutChild] take
// precedence and see the path with their segment consumed.
//
// # Site
//
// [NewSite] puts a [SharedRoot] behind a [BasicRouter] with request logging
// and Prometheus metrics.
//
// # Listener
//
// [Listen] binds a loopback TCP listener. Ports are claimed process-wide, so
// a second shell in the same process cannot bind a port the first one holds;
// it fails with [shared.ErrPortInUse] before any window is shown.
//
// # Handler Interface
//
// A [Handler] is an [http.Handler] that lists the mux patterns it owns, so
// [BasicRouter.Handler] can mount it for every method at once. [SharedRoot]
// is one.
package server
