package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show database location, size and row counts",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.GetStats(cmd.Context())
	if err != nil {
		return err
	}

	var sizeBytes int64
	if info, statErr := os.Stat(cfg.Database.Path); statErr == nil {
		sizeBytes = info.Size()
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{
			"version":           Version,
			"path":              cfg.Database.Path,
			"size_bytes":        sizeBytes,
			"schema_version":    stats.SchemaVersion,
			"user_count":        stats.UserCount,
			"progress_count":    stats.ProgressCount,
			"quiz_result_count": stats.QuizResultCount,
		})
	}

	fmt.Fprintf(out, "Version:       %s\n", Version)
	fmt.Fprintf(out, "Database:      %s\n", cfg.Database.Path)
	fmt.Fprintf(out, "Size:          %s\n", formatSize(sizeBytes))
	fmt.Fprintf(out, "Schema:        v%d\n", stats.SchemaVersion)
	fmt.Fprintf(out, "Users:         %d\n", stats.UserCount)
	fmt.Fprintf(out, "Progress:      %d\n", stats.ProgressCount)
	fmt.Fprintf(out, "Quiz results:  %d\n", stats.QuizResultCount)
	return nil
}
