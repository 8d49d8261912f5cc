// Package main provides the CLI entrypoint for winkeep.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/winkeep/winkeep/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "0.1.0"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		title      string
		backend    string
	}
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "winkeep",
	Short: "Remember where a window was and put it back",
	Long: `winkeep watches for a window with a given title. Whenever the window
appears, it is moved back to the geometry it had when it last disappeared.
Whenever it disappears, its last observed geometry is saved to disk.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(os.Stderr)

		var err error
		cfg, err = config.Load(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if globalOpts.title != "" {
			cfg.Target.Title = globalOpts.title
		}
		if globalOpts.backend != "" {
			cfg.Backend.Prefer = globalOpts.backend
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/winkeep/winkeep.toml)")
	rootCmd.PersistentFlags().StringVarP(&globalOpts.title, "title", "t", "",
		"Title of the window to track (overrides config)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.backend, "backend", "",
		"Window backend: auto, x11, xdotool, sway or win32")
}

// setupLogger configures the global slog logger.
func setupLogger(w io.Writer) {
	level := slog.LevelInfo
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
