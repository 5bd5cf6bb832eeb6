// Package models defines the persisted entities of the shell and the
// interfaces repositories implement for them.
//
// [Download] records one file the browser window saved (or failed to save)
// after the page asked for content it could not render.
package models
