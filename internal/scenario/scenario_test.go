package scenario

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"aegis-net/internal/geo"
	"aegis-net/internal/neo"
	"aegis-net/internal/physics"
	"aegis-net/internal/predict"
)

func TestLoadScenario(t *testing.T) {
	sc, err := Load("testdata/chelyabinsk.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "chelyabinsk-early-warning" {
		t.Fatalf("unexpected name %s", sc.Name)
	}
	if sc.Impact.AsteroidSize != 20 || sc.Impact.Composition != physics.Stone {
		t.Fatalf("unexpected impact %+v", sc.Impact)
	}
	if sc.Location == nil || sc.Location.Lat != 55.15 {
		t.Fatalf("unexpected location %+v", sc.Location)
	}
	if len(sc.Strategies) != 3 {
		t.Fatalf("expected 3 strategies, got %d", len(sc.Strategies))
	}
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	if _, err := Load("testdata/bad_strategy.yaml"); !errors.Is(err, physics.ErrInvalidParameter) {
		t.Fatalf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/missing.yaml"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuiltIn(t *testing.T) {
	b := BuiltIn()
	for _, n := range []string{"tunguska", "chicxulub", "chelyabinsk", "2024-ab1"} {
		s, ok := b[n]
		if !ok {
			t.Fatalf("scenario %s not found", n)
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("scenario %s invalid: %v", n, err)
		}
		if s.Location == nil {
			t.Fatalf("scenario %s has no location", n)
		}
	}
	names := Names()
	if len(names) != len(b) || names[0] != "2024-ab1" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestEvaluatePicksLargestSuccessfulDeflection(t *testing.T) {
	sc, err := Load("testdata/chelyabinsk.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rep, err := Evaluate(context.Background(), *sc, predict.NewHeuristic(predict.DefaultOptions()))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(rep.Deflections) != 3 {
		t.Fatalf("deflections = %d, want 3", len(rep.Deflections))
	}
	if rep.Best == nil || rep.Best.Strategy != physics.NuclearDeflection {
		t.Fatalf("best = %+v, want nuclear-deflection", rep.Best)
	}
	// 0.9 * 15 * 0.8 * (1 - 19/30) * 10
	if math.Abs(rep.Best.Deflection-39.6) > 1e-9 {
		t.Fatalf("best deflection = %v, want 39.6", rep.Best.Deflection)
	}
	if rep.Prediction == nil {
		t.Fatalf("expected prediction for located scenario")
	}
	if rep.Risk != physics.RiskLevel(rep.Impact.ImpactEnergy) {
		t.Fatalf("risk %s does not match energy %v", rep.Risk, rep.Impact.ImpactEnergy)
	}
}

func TestEvaluateNoSuccess(t *testing.T) {
	s := BuiltIn()["2024-ab1"]
	rep, err := Evaluate(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rep.Best != nil {
		t.Fatalf("expected no recommendation, got %+v", rep.Best)
	}
	if len(rep.Deflections) != len(physics.Strategies()) {
		t.Fatalf("deflections = %d, want all strategies", len(rep.Deflections))
	}
	if rep.Prediction != nil {
		t.Fatalf("prediction without predictor")
	}
}

func TestEvaluateInvalid(t *testing.T) {
	s := Scenario{Name: "x", Impact: physics.ImpactParameters{AsteroidSize: -1, Velocity: 10, Angle: 45, Composition: physics.Stone}}
	if _, err := Evaluate(context.Background(), s, nil); !errors.Is(err, physics.ErrInvalidParameter) {
		t.Fatalf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestPickBestTieGoesToCheaper(t *testing.T) {
	rs := []physics.DeflectionResult{
		{Strategy: physics.NuclearDeflection, Deflection: 10, Success: true, Cost: 2000},
		{Strategy: physics.KineticImpactor, Deflection: 10, Success: true, Cost: 500},
		{Strategy: physics.LaserAblation, Deflection: 12, Success: false, Cost: 100},
	}
	best := pickBest(rs)
	if best == nil || best.Strategy != physics.KineticImpactor {
		t.Fatalf("best = %+v, want kinetic-impactor", best)
	}
	if pickBest(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestFromObject(t *testing.T) {
	now := time.Date(2024, 12, 5, 14, 30, 0, 0, time.UTC)
	o := neo.Object{
		ID:             "2024-AB1",
		Name:           "Asteroid 2024-AB1",
		Diameter:       150,
		Velocity:       15.2,
		ImpactTime:     now.Add(10 * 24 * time.Hour),
		ImpactLocation: geo.Point{Lat: 40.7128, Lng: -74.0060},
	}
	s := FromObject(o, now)
	if s.Name != "2024-ab1" || s.TimeToImpactDays != 10 {
		t.Fatalf("unexpected scenario %+v", s)
	}
	if s.Impact.Composition != physics.Stone {
		t.Fatalf("composition = %s, want stone default", s.Impact.Composition)
	}
}
