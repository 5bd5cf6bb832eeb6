// Package web hosts the user's sub-application: a gin engine with static
// assets, html/template rendering and views that may answer with a deferred
// result.
//
// # Views
//
// A [View] returns a value and an error. The value decides the response:
//
//   - [Template]: rendered with the template set loaded from TEMPLATE_RESOURCE
//   - string: served as HTML text
//   - []byte: served as an octet stream
//   - [Redirect]: 302 to the location
//   - nil: 204 No Content
//   - anything else: JSON
//
// # Deferred results
//
// With ALLOW_DEFERREDS set, a view may return a [deferred.Pending]. The serving
// goroutine blocks on the app's [deferred.Pool] until it settles, and the
// settled value is rendered as above. A pool timeout answers 504, any other
// failure 500. Without deferreds a pending result is a server error.
//
// # Static assets
//
// Files under STATIC_RESOURCE are served at the root before routing, so
// /style.css maps to <static>/style.css and shadows any route of that name.
package web
