package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"aegis-net/internal/observability"
	"aegis-net/internal/sweep"
)

var (
	sweepPrintOnly bool
	sweepLogFile   string
	sweepTUI       bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the calculators over the configured parameter grid",
	Long:  "sweep expands the sweep section of the config into impact and deflection rows, optionally paced by sweep.interval.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ctx, cfg, log, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		shutdown, err := observability.InitTracing(ctx, cfg.Tracing, log)
		if err != nil {
			return err
		}
		defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

		writer, cleanup, err := newWriters(cfg, writerOptions{printOnly: sweepPrintOnly, tui: sweepTUI, logFile: sweepLogFile}, log)
		if err != nil {
			return err
		}
		defer cleanup()

		sum, err := sweep.NewRunner(cfg.Sweep, writer, nil).Run(ctx)
		log.Info("sweep finished", "run_id", sum.RunID, "points", sum.Points, "impacts", sum.Impacts, "deflections", sum.Deflections, "skipped", sum.Skipped)
		return err
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	sweepCmd.Flags().StringVar(&sweepLogFile, "log-file", "", "Path to export impact/deflection logs (JSONL)")
	sweepCmd.Flags().BoolVar(&sweepTUI, "tui", false, "Render rows in an interactive terminal UI")
}
