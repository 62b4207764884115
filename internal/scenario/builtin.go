package scenario

import (
	"sort"
	"strings"
	"time"

	"aegis-net/internal/geo"
	"aegis-net/internal/neo"
	"aegis-net/internal/physics"
)

// defaultLeadDays is the warning time given to historical replays.
const defaultLeadDays = 365

var historicalSites = map[string]geo.Point{
	"Tunguska":    {Lat: 60.886, Lng: 101.894},
	"Chicxulub":   {Lat: 21.4, Lng: -89.5},
	"Chelyabinsk": {Lat: 55.15, Lng: 61.41},
}

// FromHistorical replays a recorded event at a 45 degree stony impact.
func FromHistorical(h physics.HistoricalImpact) Scenario {
	s := Scenario{
		Name:             strings.ToLower(h.Name),
		Description:      h.Description,
		Impact:           h.Parameters(),
		TimeToImpactDays: defaultLeadDays,
	}
	if p, ok := historicalSites[h.Name]; ok {
		s.Location = &p
	}
	return s
}

// FromObject builds a scenario for a tracked object using its remaining lead
// time at now.
func FromObject(o neo.Object, now time.Time) Scenario {
	loc := o.ImpactLocation
	return Scenario{
		Name:             strings.ToLower(o.ID),
		Description:      o.Name,
		Impact:           o.ImpactParameters(45),
		TimeToImpactDays: o.DaysToImpact(now),
		Location:         &loc,
	}
}

// BuiltIn returns the historical replays and the 2024-AB1 watch object keyed
// by scenario name.
func BuiltIn() map[string]Scenario {
	out := make(map[string]Scenario)
	for _, h := range physics.HistoricalImpacts() {
		s := FromHistorical(h)
		out[s.Name] = s
	}
	out["2024-ab1"] = Scenario{
		Name:             "2024-ab1",
		Description:      "Asteroid 2024-AB1 on a New York approach",
		Impact:           physics.ImpactParameters{AsteroidSize: 150, Velocity: 15.2, Angle: 45, Composition: physics.Stone},
		TimeToImpactDays: defaultLeadDays,
		Location:         &geo.Point{Lat: 40.7128, Lng: -74.0060},
	}
	return out
}

// Names lists the built-in scenario names in sorted order.
func Names() []string {
	var names []string
	for n := range BuiltIn() {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
