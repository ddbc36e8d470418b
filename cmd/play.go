package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gachadeck/internal/bank"
	game "github.com/abhisek/gachadeck/internal/gacha"
	qz "github.com/abhisek/gachadeck/internal/quiz"
	"github.com/abhisek/gachadeck/internal/screen"
	"github.com/abhisek/gachadeck/internal/screens/album"
	"github.com/abhisek/gachadeck/internal/screens/gacha"
	"github.com/abhisek/gachadeck/internal/screens/quiz"
	"github.com/abhisek/gachadeck/internal/screens/review"
)

var gachaCmd = &cobra.Command{
	Use:   "gacha",
	Short: "Draw flashcards straight away",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, func(e *env) (screen.Screen, error) {
			g := game.New(e.bank.Deck, e.mgr.State(), e.rng())
			return gacha.New(g, e.bank.Deck, e.mgr, e.gachaOptions(), e.log), nil
		})
	},
}

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Start a quiz run",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := typeFlag(cmd)
		if err != nil {
			return err
		}
		return runApp(cmd, func(e *env) (screen.Screen, error) {
			if e.bank.Questions.Len() == 0 {
				return nil, fmt.Errorf("subject %q has no questions", e.bank.Subject)
			}
			sess := qz.New(e.bank.Questions, e.mgr.State(), e.rng())
			return quiz.New(sess, e.bank.Questions, e.mgr, e.quizOptions(filter), e.log), nil
		})
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse every question with answers hidden until toggled",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := typeFlag(cmd)
		if err != nil {
			return err
		}
		return runApp(cmd, func(e *env) (screen.Screen, error) {
			return review.New(e.bank.Questions, filter), nil
		})
	},
}

var albumCmd = &cobra.Command{
	Use:   "album",
	Short: "Show the card collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, func(e *env) (screen.Screen, error) {
			return album.New(game.New(e.bank.Deck, e.mgr.State(), e.rng()).Album()), nil
		})
	},
}

// typeFlag parses --type. "all" and empty mean no filter.
func typeFlag(cmd *cobra.Command) (bank.QuestionType, error) {
	raw, _ := cmd.Flags().GetString("type")
	if raw == "" || strings.EqualFold(raw, "all") {
		return "", nil
	}
	for _, t := range bank.AllTypes() {
		if strings.EqualFold(raw, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown question type %q (want all, choice, fill or shortAnswer)", raw)
}

func init() {
	quizCmd.Flags().String("type", "all", "Question type: all, choice, fill or shortAnswer")
	reviewCmd.Flags().String("type", "all", "Question type: all, choice, fill or shortAnswer")
}
