package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gachadeck/internal/bank"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect subject banks",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the banks in the banks directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := bank.NewLoader(cfg.BanksDir)
		subjects, err := loader.Subjects()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-36s  %5s  %9s\n", "Subject", "Title", "Cards", "Questions")
		fmt.Fprintln(out, strings.Repeat("─", 76))

		for _, s := range subjects {
			b, err := loader.Load(s)
			if err != nil {
				fmt.Fprintf(out, "%-20s  %-36s\n", s, "(invalid: run bank validate)")
				continue
			}
			title := b.Title
			if len(title) > 36 {
				title = title[:33] + "..."
			}
			fmt.Fprintf(out, "%-20s  %-36s  %5d  %9d\n", s, title, b.Deck.Len(), b.Questions.Len())
		}

		fmt.Fprintf(out, "\n%d banks in %s\n", len(subjects), cfg.BanksDir)
		return nil
	},
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate [subject...]",
	Short: "Check banks against the bank schema (all banks by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := bank.NewLoader(cfg.BanksDir)
		subjects := args
		if len(subjects) == 0 {
			var err error
			if subjects, err = loader.Subjects(); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, s := range subjects {
			b, err := loader.Load(s)
			if err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s: %v\n", s, err)
				continue
			}
			fmt.Fprintf(out, "✓ %s: %d cards, %d questions\n", s, b.Deck.Len(), b.Questions.Len())
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d banks invalid", failed, len(subjects))
		}
		return nil
	},
}

func init() {
	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankValidateCmd)
}
