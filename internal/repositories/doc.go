// Package repositories implements SQLite persistence for the shell's models.
//
//   - [DownloadRepository] : history of files saved by the browser window
//
// Records are removed outright; the history keeps no soft-deleted rows.
package repositories
