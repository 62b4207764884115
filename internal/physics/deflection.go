package physics

import "math"

// SuccessThreshold is the deflection in degrees a strategy must exceed.
const SuccessThreshold = 5.0

// Asteroid carries the inputs to the deflection estimate.
type Asteroid struct {
	Size             float64 `json:"size" yaml:"size"`
	Velocity         float64 `json:"velocity" yaml:"velocity"`
	TimeToImpactDays float64 `json:"timeToImpact" yaml:"time_to_impact_days"`
}

// Validate rejects inputs the clamps in ComputeDeflection would otherwise hide.
func (a Asteroid) Validate() error {
	if !finite(a.Size) || a.Size <= 0 {
		return invalid("size", a.Size, "must be a positive finite number of meters")
	}
	if !finite(a.Velocity) || a.Velocity <= 0 {
		return invalid("velocity", a.Velocity, "must be a positive finite number of km/s")
	}
	if !finite(a.TimeToImpactDays) || a.TimeToImpactDays < 0 {
		return invalid("timeToImpact", a.TimeToImpactDays, "must be a non-negative finite number of days")
	}
	return nil
}

// DeflectionResult is the outcome of applying one strategy.
type DeflectionResult struct {
	Strategy         StrategyID `json:"strategy"`
	Deflection       float64    `json:"deflection"`
	Success          bool       `json:"success"`
	TimeToImpactDays float64    `json:"timeToImpact"`
	Cost             float64    `json:"cost"`
	Risk             Risk       `json:"risk"`
}

// ComputeDeflection estimates the trajectory change in degrees.
func ComputeDeflection(id StrategyID, a Asteroid) (DeflectionResult, error) {
	s, err := LookupStrategy(id)
	if err != nil {
		return DeflectionResult{}, err
	}
	if err := a.Validate(); err != nil {
		return DeflectionResult{}, err
	}

	sizeFactor := math.Max(0.1, 1-a.Size/100)
	velocityFactor := math.Max(0.1, 1-a.Velocity/30)
	timeFactor := math.Max(0.1, a.TimeToImpactDays/365)
	deflection := s.Effectiveness * 15 * sizeFactor * velocityFactor * timeFactor

	return DeflectionResult{
		Strategy:         s.ID,
		Deflection:       deflection,
		Success:          deflection > SuccessThreshold,
		TimeToImpactDays: a.TimeToImpactDays,
		Cost:             s.CostMUSD,
		Risk:             s.Risk,
	}, nil
}
