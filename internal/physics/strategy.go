package physics

// StrategyID names a mitigation technique.
type StrategyID string

const (
	KineticImpactor   StrategyID = "kinetic-impactor"
	GravityTractor    StrategyID = "gravity-tractor"
	NuclearDeflection StrategyID = "nuclear-deflection"
	LaserAblation     StrategyID = "laser-ablation"
)

// Strategy is a fixed row of the mitigation table. CostMUSD is in millions
// of US dollars.
type Strategy struct {
	ID                StrategyID `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Effectiveness     float64    `json:"effectiveness"`
	CostMUSD          float64    `json:"cost"`
	TimeRequiredYears float64    `json:"timeRequired"`
	Risk              Risk       `json:"risk"`
}

var strategies = []Strategy{
	{KineticImpactor, "Kinetic Impactor", "High-speed spacecraft collision to deflect asteroid", 0.8, 500, 5, RiskLow},
	{GravityTractor, "Gravity Tractor", "Gravitational force to gradually deflect asteroid", 0.6, 1000, 10, RiskLow},
	{NuclearDeflection, "Nuclear Deflection", "Nuclear explosion to deflect asteroid (last resort)", 0.9, 2000, 3, RiskHigh},
	{LaserAblation, "Laser Ablation", "Focused laser to vaporize surface material", 0.7, 1500, 7, RiskMedium},
}

// Strategies returns a copy of the mitigation table in display order.
func Strategies() []Strategy {
	out := make([]Strategy, len(strategies))
	copy(out, strategies)
	return out
}

// LookupStrategy returns the table row for id.
func LookupStrategy(id StrategyID) (Strategy, error) {
	for _, s := range strategies {
		if s.ID == id {
			return s, nil
		}
	}
	return Strategy{}, invalid("strategy", string(id), "unknown strategy id")
}
