package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/scandium/internal/models"
	"github.com/desertthunder/scandium/internal/shared"
	"github.com/gabriel-vasile/mimetype"
)

// fallbackName is used when the URL path has no last segment.
const fallbackName = "download"

// UnsupportedContent re-fetches target with the window's client. A new
// download replaces the tracked one; the replaced fetch is cancelled and its
// reply dropped.
func (w *Window) UnsupportedContent(target string) {
	if !w.limiter.Allow() {
		w.logger.Warn("dropping download request, too many in a short time", "url", target)
		return
	}

	w.mu.Lock()
	if w.state == Closed {
		w.mu.Unlock()
		return
	}
	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.seq++
	seq := w.seq
	w.current = seq
	w.cancel = cancel
	w.mu.Unlock()

	w.logger.Info("downloading", "url", target)
	go func() {
		reply := w.fetch(ctx, target)
		reply.seq = seq
		w.surface.Dispatch(func() { w.RequestFinished(reply) })
	}()
}

func (w *Window) fetch(ctx context.Context, target string) *Reply {
	reply := &Reply{URL: target}
	resp, err := w.client.R().SetContext(ctx).Get(target)
	if err != nil {
		reply.Err = err
		return reply
	}
	reply.StatusCode = resp.StatusCode()
	reply.Header = resp.Header()
	reply.ContentType = resp.Header().Get("Content-Type")
	reply.Body = resp.Body()
	return reply
}

// RequestFinished offers the fetched body for saving. Replies that are no
// longer tracked are ignored.
func (w *Window) RequestFinished(reply *Reply) {
	w.mu.Lock()
	if reply.seq != 0 && reply.seq != w.current {
		w.mu.Unlock()
		w.logger.Debug("ignoring replaced download", "url", reply.URL)
		return
	}
	w.current = 0
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.mu.Unlock()

	saved, err := w.save(reply)
	if err != nil {
		w.logger.Error("download not saved", "url", reply.URL, "error", err)
	} else if saved != "" {
		w.logger.Info("download saved", "url", reply.URL, "path", saved, "size", len(reply.Body))
	}
	if w.onDownload != nil {
		w.onDownload(saved, err)
	}
}

// save returns the written path, or "" when the user cancelled.
func (w *Window) save(reply *Reply) (string, error) {
	if reply.Failed() && !w.bestEffort {
		err := downloadError(reply)
		w.record(models.NewFailedDownload(reply.URL, "", err))
		return "", err
	}

	suggested := filepath.Join(w.homeDir, SuggestedName(reply.URL, reply.Body))
	target, ok, err := w.dialog.Prompt(context.Background(), suggested)
	if err != nil {
		return "", fmt.Errorf("save dialog: %w", err)
	}
	if !ok {
		w.logger.Debug("download cancelled", "url", reply.URL)
		return "", nil
	}

	if err := os.WriteFile(target, reply.Body, 0644); err != nil {
		w.record(models.NewFailedDownload(reply.URL, target, err))
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}

	contentType := reply.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(reply.Body).String()
	}
	w.record(models.NewDownload(reply.URL, target, int64(len(reply.Body)), contentType))
	return target, nil
}

func (w *Window) record(d *models.Download) {
	if w.history == nil {
		return
	}
	if err := w.history.Record(d); err != nil {
		w.logger.Warn("failed to record download", "url", d.URL(), "error", err)
	}
}

func downloadError(reply *Reply) error {
	if reply.Err != nil {
		if errors.Is(reply.Err, context.Canceled) {
			return fmt.Errorf("%w: %s: cancelled", shared.ErrDownloadFailed, reply.URL)
		}
		return fmt.Errorf("%w: %s: %v", shared.ErrDownloadFailed, reply.URL, reply.Err)
	}
	return fmt.Errorf("%w: %s: status %d", shared.ErrDownloadFailed, reply.URL, reply.StatusCode)
}

// SuggestedName is the last segment of target's path, or "download" with an
// extension sniffed from body when the path has none.
func SuggestedName(target string, body []byte) string {
	if u, err := url.Parse(target); err == nil {
		name := u.Path[strings.LastIndex(u.Path, "/")+1:]
		if name != "" && name != "." && name != ".." {
			return name
		}
	}
	return fallbackName + mimetype.Detect(body).Extension()
}
