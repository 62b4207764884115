package physics

// HistoricalImpact is a reference event from the impact record.
type HistoricalImpact struct {
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Size        float64 `json:"size"`
	Velocity    float64 `json:"velocity"`
	Energy      float64 `json:"energy"`
	Casualties  float64 `json:"casualties"`
	Description string  `json:"description"`
}

// Parameters loads the event into the calculator at a 45 degree stony impact.
func (h HistoricalImpact) Parameters() ImpactParameters {
	return ImpactParameters{AsteroidSize: h.Size, Velocity: h.Velocity, Angle: 45, Composition: Stone}
}

// HistoricalImpacts returns the reference catalogue. Year is a calendar year
// except for Chicxulub, which is stored as years before present.
func HistoricalImpacts() []HistoricalImpact {
	return []HistoricalImpact{
		{Name: "Tunguska", Year: 1908, Size: 50, Velocity: 15, Energy: 12, Casualties: 0,
			Description: "Airburst over Siberia, flattened 2000 km² of forest"},
		{Name: "Chicxulub", Year: 66000000, Size: 10000, Velocity: 20, Energy: 1e8, Casualties: 75e6,
			Description: "Cretaceous-Paleogene extinction event"},
		{Name: "Chelyabinsk", Year: 2013, Size: 20, Velocity: 19, Energy: 0.5, Casualties: 1500,
			Description: "Airburst over Russia, injured 1500 people"},
	}
}

// LookupHistorical finds an event by case-sensitive name.
func LookupHistorical(name string) (HistoricalImpact, bool) {
	for _, h := range HistoricalImpacts() {
		if h.Name == name {
			return h, true
		}
	}
	return HistoricalImpact{}, false
}
