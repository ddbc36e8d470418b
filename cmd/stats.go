package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gachadeck/internal/screens/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress and answer statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		ctx := cmd.Context()

		e, err := openEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		st := e.mgr.State()
		fmt.Fprintf(out, "%s (%s)\n", e.bank.Title, e.bank.Subject)
		fmt.Fprintf(out, "Level %d  Score %d  Streak %d  Mastered %d/%d\n\n",
			st.Level(), st.Score, st.Streak, st.MasteredCount(), e.bank.Deck.Len())

		modes, err := e.events.AnswerStats(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if len(modes) == 0 {
			fmt.Fprintln(out, "No answers recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-12s %8s %8s %9s %8s  %s\n",
			"MODE", "ANSWERS", "CORRECT", "ACCURACY", "POINTS", "LAST PLAYED")
		fmt.Fprintln(out, strings.Repeat("─", 70))
		for _, m := range modes {
			fmt.Fprintln(out, stats.FormatModeRow(m))
		}

		if limit <= 0 {
			return nil
		}
		recent, err := e.events.RecentAnswers(ctx, limit)
		if err != nil {
			return fmt.Errorf("query recent answers: %w", err)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-19s  %-6s  %-14s  %6s  %s\n", "Timestamp", "Mode", "Item", "Delta", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, a := range recent {
			ok := "✓"
			if !a.Correct {
				ok = "✗"
			}
			item := a.ItemID
			if len(item) > 14 {
				item = item[:14]
			}
			fmt.Fprintf(out, "%-19s  %-6s  %-14s  %+6d  %s\n",
				a.Timestamp.Local().Format("2006-01-02 15:04:05"), a.Mode, item, a.Delta, ok)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("limit", 10, "Number of recent answers to list (0 hides them)")
}
