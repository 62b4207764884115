// Package results defines the flat records written to result sinks.
package results

import (
	"os"
	"time"

	"aegis-net/internal/physics"
)

// ImpactTable returns the impact table name, overridable via IMPACT_TABLE.
func ImpactTable() string {
	if v := os.Getenv("IMPACT_TABLE"); v != "" {
		return v
	}
	return "impact_estimates"
}

// DeflectionTable returns the deflection table name, overridable via
// DEFLECTION_TABLE.
func DeflectionTable() string {
	if v := os.Getenv("DEFLECTION_TABLE"); v != "" {
		return v
	}
	return "deflection_estimates"
}

// ImpactRow is one impact estimate with its inputs.
type ImpactRow struct {
	RunID            string    `json:"run_id"`
	Label            string    `json:"label,omitempty"`
	AsteroidSize     float64   `json:"asteroid_size_m"`
	Velocity         float64   `json:"velocity_kms"`
	Angle            float64   `json:"angle_deg"`
	Composition      string    `json:"composition"`
	ImpactEnergy     float64   `json:"impact_energy_mt"`
	BlastRadius      float64   `json:"blast_radius_m"`
	CraterDiameter   float64   `json:"crater_diameter_m"`
	TsunamiHeight    float64   `json:"tsunami_height_m"`
	SeismicMagnitude float64   `json:"seismic_magnitude"`
	Casualties       float64   `json:"casualties"`
	EconomicDamage   float64   `json:"economic_damage_busd"`
	Risk             string    `json:"risk"`
	Timestamp        time.Time `json:"ts"`
}

func NewImpactRow(runID, label string, p physics.ImpactParameters, r physics.ImpactResult, ts time.Time) ImpactRow {
	return ImpactRow{
		RunID:            runID,
		Label:            label,
		AsteroidSize:     p.AsteroidSize,
		Velocity:         p.Velocity,
		Angle:            p.Angle,
		Composition:      string(p.Composition),
		ImpactEnergy:     r.ImpactEnergy,
		BlastRadius:      r.BlastRadius,
		CraterDiameter:   r.CraterDiameter,
		TsunamiHeight:    r.TsunamiHeight,
		SeismicMagnitude: r.SeismicMagnitude,
		Casualties:       r.Casualties,
		EconomicDamage:   r.EconomicDamage,
		Risk:             string(physics.RiskLevel(r.ImpactEnergy)),
		Timestamp:        ts,
	}
}

// DeflectionRow is one strategy evaluation.
type DeflectionRow struct {
	RunID            string    `json:"run_id"`
	Label            string    `json:"label,omitempty"`
	Strategy         string    `json:"strategy"`
	AsteroidSize     float64   `json:"asteroid_size_m"`
	Velocity         float64   `json:"velocity_kms"`
	TimeToImpactDays float64   `json:"time_to_impact_days"`
	Deflection       float64   `json:"deflection_deg"`
	Success          bool      `json:"success"`
	CostMUSD         float64   `json:"cost_musd"`
	Risk             string    `json:"risk"`
	Timestamp        time.Time `json:"ts"`
}

func NewDeflectionRow(runID, label string, a physics.Asteroid, r physics.DeflectionResult, ts time.Time) DeflectionRow {
	return DeflectionRow{
		RunID:            runID,
		Label:            label,
		Strategy:         string(r.Strategy),
		AsteroidSize:     a.Size,
		Velocity:         a.Velocity,
		TimeToImpactDays: a.TimeToImpactDays,
		Deflection:       r.Deflection,
		Success:          r.Success,
		CostMUSD:         r.Cost,
		Risk:             string(r.Risk),
		Timestamp:        ts,
	}
}
