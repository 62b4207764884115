package physics

// Risk is a coarse threat classification.
type Risk string

const (
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

// RiskLevel classifies an impact by its energy in megatons.
func RiskLevel(energyMT float64) Risk {
	switch {
	case energyMT < 1:
		return RiskLow
	case energyMT < 10:
		return RiskMedium
	case energyMT < 100:
		return RiskHigh
	default:
		return RiskCritical
	}
}
