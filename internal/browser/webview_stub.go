//go:build !cgo

package browser

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scandium/internal/shared"
)

// WebviewSurface is unavailable in builds without cgo.
type WebviewSurface struct{ LoopSurface }

// NewWebviewSurface fails without cgo; use the system surface instead.
func NewWebviewSurface(bool, *log.Logger) (*WebviewSurface, error) {
	return nil, fmt.Errorf("%w: built without cgo", shared.ErrNoRenderer)
}
