package physics

import (
	"math"
	"strings"
)

// Composition is the bulk material class of an asteroid.
type Composition string

const (
	Iron  Composition = "iron"
	Stone Composition = "stone"
	Ice   Composition = "ice"
)

const (
	joulesPerMegaton = 4.184e15
	casualtyCap      = 1_000_000
)

// Density returns the bulk density in kg/m³, or 0 for an unknown composition.
func (c Composition) Density() float64 {
	switch c {
	case Iron:
		return 7800
	case Stone:
		return 3000
	case Ice:
		return 1000
	}
	return 0
}

// Valid reports whether c is one of the known compositions.
func (c Composition) Valid() bool { return c.Density() > 0 }

// ParseComposition accepts a composition name case-insensitively.
func ParseComposition(s string) (Composition, error) {
	c := Composition(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", invalid("composition", s, "must be iron, stone or ice")
	}
	return c, nil
}

// ImpactParameters describe the incoming body. AsteroidSize is a diameter in
// meters, Velocity is in km/s and Angle is degrees from horizontal.
type ImpactParameters struct {
	AsteroidSize float64     `json:"asteroidSize" yaml:"asteroid_size"`
	Velocity     float64     `json:"velocity" yaml:"velocity"`
	Angle        float64     `json:"angle" yaml:"angle"`
	Composition  Composition `json:"composition" yaml:"composition"`
}

// Validate rejects parameters that would produce undefined results.
func (p ImpactParameters) Validate() error {
	if !finite(p.AsteroidSize) || p.AsteroidSize <= 0 {
		return invalid("asteroidSize", p.AsteroidSize, "must be a positive finite number of meters")
	}
	if !finite(p.Velocity) || p.Velocity <= 0 {
		return invalid("velocity", p.Velocity, "must be a positive finite number of km/s")
	}
	if !finite(p.Angle) || p.Angle < 0 || p.Angle > 90 {
		return invalid("angle", p.Angle, "must be between 0 and 90 degrees")
	}
	if !p.Composition.Valid() {
		return invalid("composition", string(p.Composition), "must be iron, stone or ice")
	}
	return nil
}

// ImpactResult holds the destructive-effect estimates for one impact.
type ImpactResult struct {
	BlastRadius      float64 `json:"blastRadius"`
	CraterDiameter   float64 `json:"craterDiameter"`
	ImpactEnergy     float64 `json:"impactEnergy"`
	TsunamiHeight    float64 `json:"tsunamiHeight"`
	SeismicMagnitude float64 `json:"seismicMagnitude"`
	Casualties       float64 `json:"casualties"`
	EconomicDamage   float64 `json:"economicDamage"`
}

// Rounded returns a copy using display precision: distances, heights and
// casualties as integers, energy and damage to two decimals, magnitude to one.
func (r ImpactResult) Rounded() ImpactResult {
	return ImpactResult{
		BlastRadius:      math.Round(r.BlastRadius),
		CraterDiameter:   math.Round(r.CraterDiameter),
		ImpactEnergy:     roundTo(r.ImpactEnergy, 2),
		TsunamiHeight:    math.Round(r.TsunamiHeight),
		SeismicMagnitude: roundTo(r.SeismicMagnitude, 1),
		Casualties:       math.Round(r.Casualties),
		EconomicDamage:   roundTo(r.EconomicDamage, 2),
	}
}

// KineticEnergy returns the kinetic energy in joules of a sphere of the
// given diameter (m) and density (kg/m³) moving at velocityKmS.
func KineticEnergy(diameter, density, velocityKmS float64) float64 {
	radius := diameter / 2
	volume := 4.0 / 3.0 * math.Pi * radius * radius * radius
	mass := volume * density
	v := velocityKmS * 1000
	return 0.5 * mass * v * v
}

// ComputeImpact converts asteroid parameters into impact estimates.
// Results are unrounded; see Rounded for display precision.
func ComputeImpact(p ImpactParameters) (ImpactResult, error) {
	if err := p.Validate(); err != nil {
		return ImpactResult{}, err
	}

	energyMT := KineticEnergy(p.AsteroidSize, p.Composition.Density(), p.Velocity) / joulesPerMegaton
	if !finite(energyMT) || energyMT <= 0 {
		return ImpactResult{}, &DomainError{Quantity: "impact energy", Value: energyMT}
	}

	blast := math.Pow(energyMT, 0.33) * 0.5 * 1000
	res := ImpactResult{
		BlastRadius:      blast,
		CraterDiameter:   blast * 2,
		ImpactEnergy:     energyMT,
		TsunamiHeight:    math.Pow(energyMT, 0.25) * 10,
		SeismicMagnitude: math.Log10(energyMT) + 4.5,
		Casualties:       math.Min(blast*100, casualtyCap),
		EconomicDamage:   energyMT * 0.1,
	}
	if !res.finite() {
		return ImpactResult{}, &DomainError{Quantity: "impact result", Value: energyMT}
	}
	return res, nil
}

func (r ImpactResult) finite() bool {
	for _, v := range []float64{r.BlastRadius, r.CraterDiameter, r.ImpactEnergy, r.TsunamiHeight, r.SeismicMagnitude, r.Casualties, r.EconomicDamage} {
		if !finite(v) {
			return false
		}
	}
	return true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
