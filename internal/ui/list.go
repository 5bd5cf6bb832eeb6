package ui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/scandium/internal/models"
)

var _ list.Item = downloadItem{}

// downloadItem wraps [models.Download] to implement [list.Item].
type downloadItem struct {
	download *models.Download
}

func (i downloadItem) FilterValue() string { return i.download.URL() }

func (i downloadItem) Title() string {
	if i.download.Path() == "" {
		return i.download.URL()
	}
	return filepath.Base(i.download.Path())
}

func (i downloadItem) Description() string {
	when := i.download.CreatedAt().Local().Format("2006-01-02 15:04")
	if i.download.Status() == models.DownloadFailed {
		return fmt.Sprintf("%s • failed: %s", when, i.download.Error())
	}
	return fmt.Sprintf("%s • %s • %s", when, FormatSize(i.download.Size()), i.download.URL())
}

// FormatSize renders n bytes with a binary unit.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
