package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Inspect dosha quiz results",
}

var quizHistoryCmd = &cobra.Command{
	Use:   "history <email>",
	Short: "List a user's quiz results, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuizHistory,
}

func init() {
	quizCmd.AddCommand(quizHistoryCmd)
}

func runQuizHistory(cmd *cobra.Command, args []string) error {
	email := strings.ToLower(strings.TrimSpace(args[0]))

	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.ListQuizResults(cmd.Context(), email)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, results)
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "No quiz results for %s.\n", email)
		return nil
	}

	tw := newTabWriter(out)
	fmt.Fprintln(tw, "TAKEN\tDOMINANT\tVATA\tPITTA\tKAPHA\tID")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.DominantDosha,
			r.Scores.Vata, r.Scores.Pitta, r.Scores.Kapha,
			r.ID,
		)
	}
	return tw.Flush()
}
