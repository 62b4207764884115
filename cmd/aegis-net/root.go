package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"aegis-net/internal/config"
	"aegis-net/internal/logging"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath string
	schemaPath string
)

var rootCmd = &cobra.Command{
	Use:           "aegis-net",
	Short:         "Asteroid impact and planetary defense toolkit",
	Long:          "aegis-net estimates asteroid impact effects, evaluates deflection strategies and serves the results over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/aegis.yaml", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "schemas/aegis.cue", "Path to CUE schema file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(deflectCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(replayCmd)
}

// loadConfig reads the validated configuration and builds the process logger.
// The logger is also stored in the returned context.
func loadConfig(ctx context.Context) (context.Context, *config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath, schemaPath)
	if err != nil {
		return ctx, nil, nil, err
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)
	return logging.NewContext(ctx, log), cfg, log, nil
}
