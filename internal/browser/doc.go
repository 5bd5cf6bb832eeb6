// Package browser implements the shell's single browser window.
//
// A [Window] drives a [Surface], the binding to whatever renders the page:
// the embedded webview, the system browser or nothing at all. The window is
// the surface's [Listener]; surfaces report print requests, links to content
// they cannot render, finished re-fetches and the window closing through it.
//
// Content the surface cannot render is fetched again with the window's own
// HTTP client and offered to the user through a [ui.SaveDialog].
package browser
