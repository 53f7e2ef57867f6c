package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyperengineering/dinacharya/internal/progress"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect user progress records",
}

var progressShowCmd = &cobra.Command{
	Use:   "show <email>",
	Short: "Show a user's stored progress without modifying it",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgressShow,
}

func init() {
	progressCmd.AddCommand(progressShowCmd)
}

func runProgressShow(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(args[0])

	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.FindProgress(cmd.Context(), email)
	if err != nil {
		return fmt.Errorf("progress for %s: %w", email, err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	// The stored streak is only refreshed on read; show what a read would report.
	liveStreak := progress.ComputeStreak(rec.DailyActivity, time.Now().In(loc))

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{
			"record":      rec,
			"live_streak": liveStreak,
		})
	}

	s := rec.WeeklyStats
	fmt.Fprintf(out, "User:            %s\n", rec.UserEmail)
	fmt.Fprintf(out, "Schema:          v%d (revision %d)\n", rec.SchemaVersion, rec.Revision)
	fmt.Fprintf(out, "Points:          %d / %d (%.1f%%)\n", s.TotalPoints, s.WeeklyGoal, s.WeeklyProgress)
	fmt.Fprintf(out, "Tasks:           %d of %d today, %d total\n", s.CompletedTasks, s.TotalTasks, s.TotalCompleted)
	fmt.Fprintf(out, "Streak:          %d (stored %d, best %d)\n", liveStreak, s.Streak, s.BestStreak)
	fmt.Fprintf(out, "Last updated:    %s\n", rec.LastUpdated.Format("2006-01-02 15:04:05 MST"))

	if len(rec.Achievements) > 0 {
		fmt.Fprintln(out)
		tw := newTabWriter(out)
		fmt.Fprintln(tw, "ACHIEVEMENT\tNAME\tUNLOCKED")
		for _, a := range rec.Achievements {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", a.ID, a.Name, a.UnlockedAt.Format("2006-01-02"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(rec.DailyActivity) > 0 {
		fmt.Fprintln(out)
		tw := newTabWriter(out)
		fmt.Fprintln(tw, "DATE\tPOINTS\tTASKS\tSTREAK")
		for _, d := range rec.DailyActivity {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", d.Date.Format("2006-01-02"), d.Points, len(d.CompletedTasks), d.Streak)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
