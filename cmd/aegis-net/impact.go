package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aegis-net/internal/physics"
	"aegis-net/internal/results"
)

var (
	impactSize        float64
	impactVelocity    float64
	impactAngle       float64
	impactComposition string
	impactPrintOnly   bool
)

var impactCmd = &cobra.Command{
	Use:   "impact",
	Short: "Estimate the effects of a single impact",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, log, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		comp, err := physics.ParseComposition(impactComposition)
		if err != nil {
			return err
		}
		p := physics.ImpactParameters{AsteroidSize: impactSize, Velocity: impactVelocity, Angle: impactAngle, Composition: comp}
		r, err := physics.ComputeImpact(p)
		if err != nil {
			return err
		}
		writer, cleanup, err := newWriters(cfg, writerOptions{printOnly: impactPrintOnly}, log)
		if err != nil {
			return err
		}
		defer cleanup()
		row := results.NewImpactRow(uuid.NewString(), "cli", p, r, time.Now().UTC())
		log.DebugContext(ctx, "impact computed", "energy_mt", r.ImpactEnergy, "risk", row.Risk)
		return writer.WriteImpact(row)
	},
}

func init() {
	impactCmd.Flags().Float64Var(&impactSize, "size", 100, "Asteroid diameter in meters")
	impactCmd.Flags().Float64Var(&impactVelocity, "velocity", 20, "Impact velocity in km/s")
	impactCmd.Flags().Float64Var(&impactAngle, "angle", 45, "Entry angle in degrees from horizontal")
	impactCmd.Flags().StringVar(&impactComposition, "composition", "stone", "Composition: iron, stone or ice")
	impactCmd.Flags().BoolVar(&impactPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
}
