// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/scandium/internal/models"
	"github.com/desertthunder/scandium/internal/ui"
)

var (
	_ ui.SaveDialog = (*MockDialog)(nil)
	_ ui.History    = (*MemoryHistory)(nil)
)

// MockDialog is a test double for [ui.SaveDialog] answering with a fixed choice.
//
// An empty Path accepts whatever was suggested.
type MockDialog struct {
	Path   string
	Cancel bool
	Err    error

	mu        sync.Mutex
	suggested []string
}

func (d *MockDialog) Prompt(_ context.Context, suggested string) (string, bool, error) {
	d.mu.Lock()
	d.suggested = append(d.suggested, suggested)
	d.mu.Unlock()

	if d.Err != nil {
		return "", false, d.Err
	}
	if d.Cancel {
		return "", false, nil
	}
	if d.Path != "" {
		return d.Path, true, nil
	}
	return suggested, true, nil
}

// Suggested lists the paths the dialog was asked about.
func (d *MockDialog) Suggested() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.suggested...)
}

// MemoryHistory keeps download history in memory.
type MemoryHistory struct {
	mu        sync.Mutex
	downloads []*models.Download
}

func (h *MemoryHistory) Record(d *models.Download) error {
	if err := d.Validate(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.downloads = append([]*models.Download{d}, h.downloads...)
	return nil
}

func (h *MemoryHistory) List(map[string]any) ([]*models.Download, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*models.Download(nil), h.downloads...), nil
}

func (h *MemoryHistory) Clear() (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := int64(len(h.downloads))
	h.downloads = nil
	return n, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
