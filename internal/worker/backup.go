// Package worker runs periodic background jobs.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/hyperengineering/dinacharya/internal/snapshot"
)

// BackupStore defines the store operations needed by the backup worker.
type BackupStore interface {
	Backup(ctx context.Context, destPath string) error
}

// BackupWorker copies the database to a local directory and uploads it.
type BackupWorker struct {
	store    BackupStore
	uploader snapshot.Uploader
	dir      string
	interval time.Duration
	now      func() time.Time
}

// NewBackupWorker creates a worker that writes backups into dir every interval.
func NewBackupWorker(store BackupStore, uploader snapshot.Uploader, dir string, interval time.Duration) *BackupWorker {
	if uploader == nil {
		uploader = &snapshot.NoopUploader{}
	}
	return &BackupWorker{
		store:    store,
		uploader: uploader,
		dir:      dir,
		interval: interval,
		now:      time.Now,
	}
}

// Run starts the worker loop. Backs up immediately on start, then on each
// interval. Respects context cancellation for graceful shutdown.
func (w *BackupWorker) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "backup",
		"interval", w.interval.String(),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.backup(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "backup",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			w.backup(ctx)
		}
	}
}

// RunOnce performs one backup cycle and returns the local backup path.
// The local copy is always written to current.db; the upload goes to both
// the current name and a dated name.
func (w *BackupWorker) RunOnce(ctx context.Context) (string, error) {
	dest := filepath.Join(w.dir, snapshot.CurrentName)
	if err := w.store.Backup(ctx, dest); err != nil {
		return "", fmt.Errorf("backup database: %w", err)
	}

	dated := w.now().UTC().Format("2006-01-02") + ".db"
	for _, name := range []string{snapshot.CurrentName, dated} {
		if err := w.uploader.Upload(ctx, name, dest); err != nil {
			return dest, fmt.Errorf("upload %s: %w", name, err)
		}
	}
	return dest, nil
}

func (w *BackupWorker) backup(ctx context.Context) {
	start := time.Now()
	path, err := w.RunOnce(ctx)
	if err != nil {
		// Check if it's a context cancellation (graceful shutdown)
		if ctx.Err() != nil {
			return
		}
		slog.Warn("backup failed",
			"component", "worker",
			"action", "backup_failed",
			"error", err,
		)
		return
	}
	slog.Info("backup completed",
		"component", "worker",
		"action", "backup_complete",
		"path", path,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
