package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/desertthunder/scandium/internal/models"
	"github.com/desertthunder/scandium/internal/repositories"
	"github.com/desertthunder/scandium/internal/shared"
	"github.com/desertthunder/scandium/internal/ui"
	"github.com/urfave/cli/v3"
)

// openHistory opens HISTORY_DATABASE. The caller closes the returned function.
func (r *Runner) openHistory(cmd *cli.Command) (*repositories.DownloadRepository, func(), error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if config.HistoryDatabase == "" {
		return nil, nil, fmt.Errorf("%w: HISTORY_DATABASE setting not configured", shared.ErrMissingConfig)
	}

	db, err := shared.OpenHistory(config.HistoryDatabase)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open download history: %w", err)
	}
	return repositories.NewDownloadRepository(db), func() { db.Close() }, nil
}

// ListDownloads prints the download history, newest first.
func (r *Runner) ListDownloads(ctx context.Context, cmd *cli.Command) error {
	criteria := map[string]any{"limit": cmd.Int("limit")}
	switch status := models.DownloadStatus(cmd.String("status")); status {
	case "":
	case models.DownloadSaved, models.DownloadFailed:
		criteria["status"] = status
	default:
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidArgument, status)
	}

	repo, closeDB, err := r.openHistory(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	if cmd.Bool("interactive") {
		return ui.BrowseHistory(ctx, repo)
	}

	downloads, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if downloads == nil {
			downloads = []*models.Download{}
		}
		return r.writeJSON(downloads, true)
	}

	if len(downloads) == 0 {
		return r.writePlainln("%s", ui.Styles.Help("No downloads recorded."))
	}

	r.writePlainHeader(fmt.Sprintf("Downloads (%d)", len(downloads)))
	for _, d := range downloads {
		when := d.CreatedAt().Local().Format("2006-01-02 15:04")
		if d.Status() == models.DownloadFailed {
			if err := r.writePlainln("%s %s  %s  %s", ui.Styles.Err("✗"), when, d.URL(), ui.Styles.Help(d.Error())); err != nil {
				return err
			}
			continue
		}
		if err := r.writePlainln("%s %s  %s  %s  %s", ui.Styles.OK("✓"), when, filepath.Base(d.Path()), ui.FormatSize(d.Size()), ui.Styles.Help(d.URL())); err != nil {
			return err
		}
	}
	return nil
}

// ClearDownloads deletes every history record.
func (r *Runner) ClearDownloads(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openHistory(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	n, err := repo.Clear()
	if err != nil {
		return err
	}
	r.logger.Info("cleared download history", "removed", n)
	return r.writePlainln("%s removed %d download(s)", ui.Styles.OK("✓"), n)
}
