package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/scandium/internal/shared"
)

// DownloadStatus is the outcome of a download.
type DownloadStatus string

const (
	DownloadSaved  DownloadStatus = "saved"
	DownloadFailed DownloadStatus = "failed"
)

var _ Model = (*Download)(nil)

// Download is a history entry for a file fetched by the browser window.
type Download struct {
	id          string
	url         string
	path        string
	size        int64
	contentType string
	status      DownloadStatus
	err         string
	createdAt   time.Time
}

// NewDownload creates a saved download entry.
func NewDownload(url, path string, size int64, contentType string) *Download {
	return &Download{
		url:         url,
		path:        path,
		size:        size,
		contentType: contentType,
		status:      DownloadSaved,
		createdAt:   time.Now().UTC(),
	}
}

// NewFailedDownload creates an entry for a download that could not be fetched or written.
func NewFailedDownload(url, path string, cause error) *Download {
	d := NewDownload(url, path, 0, "")
	d.status = DownloadFailed
	if cause != nil {
		d.err = cause.Error()
	}
	return d
}

func (d *Download) ID() string             { return d.id }
func (d *Download) URL() string            { return d.url }
func (d *Download) Path() string           { return d.path }
func (d *Download) Size() int64            { return d.size }
func (d *Download) ContentType() string    { return d.contentType }
func (d *Download) Status() DownloadStatus { return d.status }
func (d *Download) Error() string          { return d.err }
func (d *Download) CreatedAt() time.Time   { return d.createdAt }

func (d *Download) SetID(id string)            { d.id = id }
func (d *Download) SetCreatedAt(t time.Time)   { d.createdAt = t }
func (d *Download) SetStatus(s DownloadStatus) { d.status = s }
func (d *Download) SetError(msg string)        { d.err = msg }

// Validate checks the entry has a source and a known status.
func (d *Download) Validate() error {
	if d.url == "" {
		return fmt.Errorf("%w: download url is required", shared.ErrInvalidInput)
	}
	switch d.status {
	case DownloadSaved:
		if d.path == "" {
			return fmt.Errorf("%w: saved download needs a path", shared.ErrInvalidInput)
		}
	case DownloadFailed:
	default:
		return fmt.Errorf("%w: unknown download status %q", shared.ErrInvalidInput, d.status)
	}
	return nil
}

// MarshalJSON exposes the entry's fields for the CLI's JSON output.
func (d *Download) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string         `json:"id"`
		URL         string         `json:"url"`
		Path        string         `json:"path,omitempty"`
		Size        int64          `json:"size"`
		ContentType string         `json:"content_type,omitempty"`
		Status      DownloadStatus `json:"status"`
		Error       string         `json:"error,omitempty"`
		CreatedAt   time.Time      `json:"created_at"`
	}{d.id, d.url, d.path, d.size, d.contentType, d.status, d.err, d.createdAt})
}
