// Package scenario loads impact scenarios and evaluates them end to end.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"aegis-net/internal/geo"
	"aegis-net/internal/physics"
)

// Scenario is one incoming object with the response options under study.
type Scenario struct {
	Name        string                   `yaml:"name" json:"name"`
	Description string                   `yaml:"description,omitempty" json:"description,omitempty"`
	Impact      physics.ImpactParameters `yaml:"impact" json:"impact"`
	// TimeToImpactDays is the warning time available to mitigation.
	TimeToImpactDays float64 `yaml:"time_to_impact_days" json:"timeToImpact"`
	// Location enables the consequence predictor when set.
	Location   *geo.Point           `yaml:"location,omitempty" json:"location,omitempty"`
	Strategies []physics.StrategyID `yaml:"strategies,omitempty" json:"strategies,omitempty"`
}

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if s.Impact.Composition == "" {
		s.Impact.Composition = physics.Stone
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks the scenario without running any calculator.
func (s Scenario) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &physics.InvalidParameterError{Field: "name", Value: s.Name, Reason: "must not be empty"}
	}
	if err := s.Impact.Validate(); err != nil {
		return err
	}
	if err := s.asteroid().Validate(); err != nil {
		return err
	}
	if s.Location != nil && !s.Location.Valid() {
		return &physics.InvalidParameterError{Field: "location", Value: *s.Location, Reason: "latitude or longitude out of range"}
	}
	for _, id := range s.Strategies {
		if _, err := physics.LookupStrategy(id); err != nil {
			return err
		}
	}
	return nil
}

func (s Scenario) asteroid() physics.Asteroid {
	return physics.Asteroid{Size: s.Impact.AsteroidSize, Velocity: s.Impact.Velocity, TimeToImpactDays: s.TimeToImpactDays}
}

func (s Scenario) strategies() []physics.StrategyID {
	if len(s.Strategies) > 0 {
		return s.Strategies
	}
	var ids []physics.StrategyID
	for _, st := range physics.Strategies() {
		ids = append(ids, st.ID)
	}
	return ids
}
