package browser

import (
	"context"
	"net/http"

	"github.com/desertthunder/scandium/internal/shared"
)

// Listener receives the window events a surface reports.
type Listener interface {
	PrintRequested()
	UnsupportedContent(url string)
	RequestFinished(reply *Reply)
	Closed()
}

// Surface is the rendering toolkit binding behind a [Window].
//
// Dispatch schedules fn on the surface's loop; everything a listener
// receives is delivered there as well.
type Surface interface {
	SetTitle(title string)
	SetGeometry(g shared.Geometry)
	SetIcon(icon []byte) error
	SetDeveloperExtras(enabled bool)
	Install(l Listener)
	Navigate(url string)
	Show()
	Print()

	Dispatch(fn func())
	Run(ctx context.Context) error
	Terminate()
}

// Reply is the outcome of re-fetching unsupported content.
type Reply struct {
	URL         string
	StatusCode  int
	ContentType string
	Header      http.Header
	Body        []byte
	Err         error

	seq uint64
}

// Failed reports a transport error or a non-2xx status.
func (r *Reply) Failed() bool {
	return r.Err != nil || r.StatusCode < 200 || r.StatusCode > 299
}
