package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/scandium/internal/models"
	"github.com/desertthunder/scandium/internal/shared"
)

var _ models.Repository[*models.Download] = (*DownloadRepository)(nil)

// DownloadRepository implements models.Repository[*models.Download] over the downloads table.
type DownloadRepository struct {
	db *sql.DB
}

// NewDownloadRepository creates a new DownloadRepository with the given database connection
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Create inserts a [models.Download] with a generated ID
func (r *DownloadRepository) Create(d *models.Download) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if d.ID() == "" {
		d.SetID(shared.GenerateID())
	}

	query := `
		INSERT INTO downloads (id, url, path, size, content_type, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		d.ID(),
		d.URL(),
		d.Path(),
		d.Size(),
		d.ContentType(),
		string(d.Status()),
		d.Error(),
		d.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}

	return nil
}

// Get retrieves a download by ID
func (r *DownloadRepository) Get(id string) (*models.Download, error) {
	query := `
		SELECT id, url, path, size, content_type, status, error, created_at
		FROM downloads
		WHERE id = ?
	`

	d, err := r.scan(r.db.QueryRow(query, id))
	if isNoRows(err) {
		return nil, fmt.Errorf("%w: download %s", shared.ErrNotFound, id)
	}
	return d, err
}

// Delete removes a download entry by ID. The saved file is left alone.
func (r *DownloadRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM downloads WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete download: %w", err)
	}
	return affected(result, fmt.Errorf("%w: download %s", shared.ErrNotFound, id))
}

// List retrieves downloads newest first.
//
// Criteria: "status" (string or [models.DownloadStatus]) and "limit" (int, 0 for all).
func (r *DownloadRepository) List(criteria map[string]any) ([]*models.Download, error) {
	query := `
		SELECT id, url, path, size, content_type, status, error, created_at
		FROM downloads
		WHERE 1 = 1
	`
	args := []any{}

	switch status := criteria["status"].(type) {
	case string:
		if status != "" {
			query += " AND status = ?"
			args = append(args, status)
		}
	case models.DownloadStatus:
		query += " AND status = ?"
		args = append(args, string(status))
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var downloads []*models.Download
	for rows.Next() {
		d, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		downloads = append(downloads, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return downloads, nil
}

// Recent returns at most limit downloads, newest first.
func (r *DownloadRepository) Recent(limit int) ([]*models.Download, error) {
	return r.List(map[string]any{"limit": limit})
}

// Clear removes every entry and reports how many were removed.
func (r *DownloadRepository) Clear() (int64, error) {
	result, err := r.db.Exec("DELETE FROM downloads")
	if err != nil {
		return 0, fmt.Errorf("failed to clear downloads: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

// Record implements the browser's history hook.
func (r *DownloadRepository) Record(d *models.Download) error {
	return r.Create(d)
}

func (r *DownloadRepository) scan(row scanner) (*models.Download, error) {
	var (
		id          string
		url         string
		path        string
		size        int64
		contentType string
		status      string
		errMsg      string
		createdAt   time.Time
	)

	if err := row.Scan(&id, &url, &path, &size, &contentType, &status, &errMsg, &createdAt); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan download: %w", err)
	}

	d := models.NewDownload(url, path, size, contentType)
	d.SetID(id)
	d.SetStatus(models.DownloadStatus(status))
	d.SetError(errMsg)
	d.SetCreatedAt(createdAt)
	return d, nil
}
