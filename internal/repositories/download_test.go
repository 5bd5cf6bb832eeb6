package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/scandium/internal/models"
	"github.com/desertthunder/scandium/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenHistory(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDownloadRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewDownloadRepository(setupTestDB(t))
		d := models.NewDownload("http://localhost:8080/report.pdf", "/tmp/report.pdf", 1024, "application/pdf")

		if err := repo.Create(d); err != nil {
			t.Fatalf("failed to create download: %v", err)
		}
		if d.ID() == "" {
			t.Error("download ID should be set after creation")
		}
	})

	t.Run("Create validates", func(t *testing.T) {
		repo := NewDownloadRepository(setupTestDB(t))
		if err := repo.Create(models.NewDownload("", "/tmp/x", 0, "")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewDownloadRepository(setupTestDB(t))
		d := models.NewDownload("http://localhost:8080/a.zip", "/tmp/a.zip", 7, "application/zip")
		if err := repo.Create(d); err != nil {
			t.Fatalf("failed to create download: %v", err)
		}

		got, err := repo.Get(d.ID())
		if err != nil {
			t.Fatalf("failed to get download: %v", err)
		}
		if got.URL() != d.URL() || got.Path() != d.Path() || got.Size() != 7 || got.ContentType() != "application/zip" {
			t.Errorf("round trip lost fields: %+v", got)
		}
		if got.Status() != models.DownloadSaved {
			t.Errorf("expected saved status, got %s", got.Status())
		}
	})

	t.Run("Get NotFound", func(t *testing.T) {
		repo := NewDownloadRepository(setupTestDB(t))
		if _, err := repo.Get("nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewDownloadRepository(setupTestDB(t))
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, name := range []string{"first", "second", "third"} {
			d := models.NewDownload("http://localhost/"+name, "/tmp/"+name, 0, "")
			d.SetCreatedAt(base.Add(time.Duration(i) * time.Minute))
			if err := repo.Create(d); err != nil {
				t.Fatalf("failed to create download: %v", err)
			}
		}
		failed := models.NewFailedDownload("http://localhost/broken", "", errors.New("status 500"))
		failed.SetCreatedAt(base.Add(-time.Minute))
		if err := repo.Create(failed); err != nil {
			t.Fatalf("failed to create failed download: %v", err)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list downloads: %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("expected 4 downloads, got %d", len(all))
		}
		if all[0].URL() != "http://localhost/third" {
			t.Errorf("expected newest first, got %s", all[0].URL())
		}

		recent, err := repo.Recent(2)
		if err != nil {
			t.Fatalf("failed to list recent downloads: %v", err)
		}
		if len(recent) != 2 || recent[1].URL() != "http://localhost/second" {
			t.Errorf("unexpected recent downloads: %d", len(recent))
		}

		onlyFailed, err := repo.List(map[string]any{"status": models.DownloadFailed})
		if err != nil {
			t.Fatalf("failed to filter downloads: %v", err)
		}
		if len(onlyFailed) != 1 || onlyFailed[0].Error() != "status 500" {
			t.Errorf("unexpected failed downloads: %d", len(onlyFailed))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewDownloadRepository(setupTestDB(t))
		d := models.NewDownload("http://localhost/x", "/tmp/x", 0, "")
		if err := repo.Create(d); err != nil {
			t.Fatalf("failed to create download: %v", err)
		}

		if err := repo.Delete(d.ID()); err != nil {
			t.Fatalf("failed to delete download: %v", err)
		}
		if err := repo.Delete(d.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewDownloadRepository(setupTestDB(t))
		for _, name := range []string{"a", "b"} {
			if err := repo.Record(models.NewDownload("http://localhost/"+name, "/tmp/"+name, 0, "")); err != nil {
				t.Fatalf("failed to record download: %v", err)
			}
		}

		n, err := repo.Clear()
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 removed, got %d", n)
		}
		if all, _ := repo.List(nil); len(all) != 0 {
			t.Errorf("expected empty history, got %d", len(all))
		}
	})
}
