package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aegis-net/internal/physics"
	"aegis-net/internal/results"
	"aegis-net/internal/sink"
)

var (
	deflectStrategy  string
	deflectSize      float64
	deflectVelocity  float64
	deflectDays      float64
	deflectPrintOnly bool
)

var deflectCmd = &cobra.Command{
	Use:   "deflect",
	Short: "Evaluate deflection strategies for one asteroid",
	Long:  "deflect runs one mitigation strategy, or every strategy when --strategy is empty, against the given asteroid.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, log, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		a := physics.Asteroid{Size: deflectSize, Velocity: deflectVelocity, TimeToImpactDays: deflectDays}
		ids, err := deflectStrategies(deflectStrategy)
		if err != nil {
			return err
		}

		runID, now := uuid.NewString(), time.Now().UTC()
		rows := make([]results.DeflectionRow, 0, len(ids))
		for _, id := range ids {
			r, err := physics.ComputeDeflection(id, a)
			if err != nil {
				return err
			}
			rows = append(rows, results.NewDeflectionRow(runID, "cli", a, r, now))
		}

		writer, cleanup, err := newWriters(cfg, writerOptions{printOnly: deflectPrintOnly}, log)
		if err != nil {
			return err
		}
		defer cleanup()
		return sink.WriteDeflections(writer, rows)
	},
}

func deflectStrategies(id string) ([]physics.StrategyID, error) {
	if id != "" {
		st, err := physics.LookupStrategy(physics.StrategyID(id))
		if err != nil {
			return nil, err
		}
		return []physics.StrategyID{st.ID}, nil
	}
	var ids []physics.StrategyID
	for _, st := range physics.Strategies() {
		ids = append(ids, st.ID)
	}
	return ids, nil
}

func init() {
	deflectCmd.Flags().StringVar(&deflectStrategy, "strategy", "", "Strategy id (kinetic-impactor, gravity-tractor, nuclear-deflection, laser-ablation)")
	deflectCmd.Flags().Float64Var(&deflectSize, "size", 100, "Asteroid diameter in meters")
	deflectCmd.Flags().Float64Var(&deflectVelocity, "velocity", 20, "Asteroid velocity in km/s")
	deflectCmd.Flags().Float64Var(&deflectDays, "days", 365, "Warning time before impact in days")
	deflectCmd.Flags().BoolVar(&deflectPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
}
