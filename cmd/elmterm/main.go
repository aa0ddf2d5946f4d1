// Package main is the entry point for the elmterm command.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/elmterm/internal/app"
	"github.com/dshills/elmterm/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	// Global flags
	configPath string
	logFile    string
	logLevel   string
	altScreen  bool
	mouseMode  string

	// Resolved by the root command before any subcommand runs.
	settings *config.File
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "elmterm",
	Short: "Model-update-view terminal runtime",
	Long: `elmterm runs terminal programs built from a model, an update function
and a view. Input is decoded into messages, updates run one message at a
time and the view is redrawn after each burst.

Settings come from the config file, then ELMTERM_* environment variables,
then flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return loadSettings(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Path to configuration file (.toml or .yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&altScreen, "alt-screen", false, "Use the alternate screen")
	rootCmd.PersistentFlags().StringVar(&mouseMode, "mouse", "", "Mouse reporting (none, normal, cell, all)")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, app.ErrKilled) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "elmterm", "config.toml")
}

// loadSettings layers flags over the config file and builds the logger.
func loadSettings(cmd *cobra.Command) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("alt-screen") {
		cfg.AltScreen = altScreen
	}
	if flags.Changed("mouse") {
		cfg.MouseMode = mouseMode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := app.NewLogger(cfg.Logger())
	if err != nil {
		return err
	}

	settings, logger = cfg, l
	logger.Debug("settings loaded",
		zap.String("config", configPath),
		zap.String("mouse", cfg.MouseMode),
		zap.Bool("alt_screen", cfg.AltScreen))
	return nil
}

// newProgram builds a program from the resolved settings. extra options
// are applied last.
func newProgram[S any](model app.Model[S], extra ...app.Option) (*app.Program[S], error) {
	opts, err := settings.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, app.WithLogger(logger))
	opts = append(opts, extra...)
	return app.New(model, opts...)
}
