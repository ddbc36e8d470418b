package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/gachadeck/internal/config"
)

var (
	v   = viper.New()
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gachadeck",
	Short: "Flashcard gacha and quiz trainer for the terminal",
	Long: "gachadeck draws flashcards like gacha capsules and quizzes you on a subject bank.\n" +
		"Arrow keys drive everything; a webcam and the hand landmark helper add swipe gestures.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		c, err := config.Load(v, file)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, homeRoot)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file")
	pf.String("db", "", "Path to SQLite database file (overrides GACHADECK_DB env var)")
	pf.String("subject", "", "Bank subject to play (file stem under --banks)")
	pf.String("banks", "", "Directory holding <subject>.json banks")
	pf.Bool("gestures", false, "Start with webcam gesture input on")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	for key, flag := range map[string]string{
		"db":              "db",
		"subject":         "subject",
		"banks_dir":       "banks",
		"gesture.enabled": "gestures",
		"log.level":       "log-level",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	rootCmd.AddCommand(gachaCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(albumCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(versionCmd)
}
