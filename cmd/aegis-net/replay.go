package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"aegis-net/internal/config"
	"aegis-net/internal/sink"
)

var (
	replayInput       string
	replayDeflections string
	replaySpeed       float64
	replayPrintOnly   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay exported result logs",
	Long:  "replay feeds impact and deflection rows from JSONL log files back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" && replayDeflections == "" {
			return fmt.Errorf("input file required")
		}
		// Replay works without a config file, using defaults and env overrides.
		_, cfg, log, err := loadConfig(cmd.Context())
		if err != nil {
			log = slog.Default()
			log.Debug("replay without config file", "err", err)
			if cfg, err = config.Parse(nil); err != nil {
				return err
			}
		}
		writer, cleanup, err := newWriters(cfg, writerOptions{printOnly: replayPrintOnly}, log)
		if err != nil {
			return err
		}
		defer cleanup()
		if replayInput != "" {
			if err := sink.ReplayLogFile(replayInput, writer, replaySpeed); err != nil {
				return err
			}
		}
		if replayDeflections != "" {
			return sink.ReplayDeflectionFile(replayDeflections, writer, replaySpeed)
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to impact log file")
	replayCmd.Flags().StringVar(&replayDeflections, "deflections", "", "Path to deflection log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
}
