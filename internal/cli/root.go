// Package cli provides the command-line interface for moodmate.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"moodmate/internal/app"
	"moodmate/internal/config"
	"moodmate/internal/logging"
	"moodmate/internal/speech"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	speechDir string

	cfg         *config.Config
	logger      *zap.Logger
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "moodmate",
	Short: "A music companion that listens to how you feel",
	Long: `moodmate chats with you, detects your mood from what you say and
suggests music to match. Say "play <song>" to get a link to a track.

Every conversation's mood is kept in a local JSON file so you can look
back at your mood insights later.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.LogDevelopment)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		application, err = app.New(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			waitForSpeech(application.Speaker, speechDir)
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&speechDir, "speech-dir", "", "write synthesised replies as .ogg files into this directory")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(voiceCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(discordCmd)
}

// waitForSpeech keeps the process alive until replies queued for the speech
// directory are written.
func waitForSpeech(sp *speech.Speaker, dir string) {
	if dir == "" {
		return
	}
	sp.Wait()
}

func newTerminal(cmd *cobra.Command) *terminal {
	return &terminal{
		w:         cmd.OutOrStdout(),
		theme:     defaultTheme,
		speaker:   application.Speaker,
		speechDir: speechDir,
		logger:    logger,
	}
}
