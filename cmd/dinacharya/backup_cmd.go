package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hyperengineering/dinacharya/internal/snapshot"
	"github.com/hyperengineering/dinacharya/internal/worker"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create and share database backups",
}

var backupRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Write a backup now and upload it when storage is configured",
	Args:  cobra.NoArgs,
	RunE:  runBackupRun,
}

var backupURLCmd = &cobra.Command{
	Use:   "url [name]",
	Short: "Print a pre-signed download URL for an uploaded backup",
	Long:  "Print a pre-signed download URL for an uploaded backup. Name defaults to " + snapshot.CurrentName + "; dated backups are named YYYY-MM-DD.db.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackupURL,
}

func init() {
	backupCmd.AddCommand(backupRunCmd)
	backupCmd.AddCommand(backupURLCmd)
}

func runBackupRun(cmd *cobra.Command, args []string) error {
	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	uploader, err := snapshot.NewUploader(cfg.Snapshot)
	if err != nil {
		return err
	}

	w := worker.NewBackupWorker(db, uploader, cfg.Worker.BackupDir, time.Duration(cfg.Worker.BackupInterval))
	path, err := w.RunOnce(cmd.Context())
	if err != nil {
		return err
	}

	var size int64
	if info, statErr := os.Stat(path); statErr == nil {
		size = info.Size()
	}
	uploaded := cfg.Snapshot.Bucket != ""

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{
			"path":       path,
			"size_bytes": size,
			"uploaded":   uploaded,
		})
	}
	fmt.Fprintf(out, "Backup written to %s (%s)\n", path, formatSize(size))
	if uploaded {
		fmt.Fprintf(out, "Uploaded to bucket %s\n", cfg.Snapshot.Bucket)
	}
	return nil
}

func runBackupURL(cmd *cobra.Command, args []string) error {
	name := snapshot.CurrentName
	if len(args) == 1 {
		name = args[0]
	}

	cfg, err := loadLocalConfig()
	if err != nil {
		return err
	}
	uploader, err := snapshot.NewUploader(cfg.Snapshot)
	if err != nil {
		return err
	}

	url, expires, err := uploader.PresignedURL(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("presign %s: %w", name, err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{
			"name":       name,
			"url":        url,
			"expires_at": expires,
		})
	}
	fmt.Fprintln(out, url)
	return nil
}
