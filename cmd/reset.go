package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset score, level, streak and mastered cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		ctx := cmd.Context()

		e, err := openEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		if !yes {
			fmt.Fprintf(out, "Reset all progress (%d mastered cards, score %d)? [y/N] ",
				e.mgr.State().MasteredCount(), e.mgr.State().Score)
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := e.mgr.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
