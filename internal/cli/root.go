// Package cli implements the mediafetch command line using Cobra.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/veranemoloko/media-downloader/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	flagEnvFile string
	flagDebug   bool
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "mediafetch",
	Short:             "Download videos and audio from TikTok, YouTube and Bilibili",
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Optional dotenv file to load")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
}

// loadConfig reads the same environment as the server. Logs go to stderr so
// command output stays clean.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(flagEnvFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelWarn
	if flagDebug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}
