package physics

import (
	"errors"
	"math"
	"testing"
)

func TestComputeDeflectionKineticFails(t *testing.T) {
	res, err := ComputeDeflection(KineticImpactor, Asteroid{Size: 50, Velocity: 17, TimeToImpactDays: 365})
	if err != nil {
		t.Fatalf("ComputeDeflection: %v", err)
	}
	if !near(res.Deflection, 2.6, 1e-9) {
		t.Fatalf("deflection = %v, want 2.6", res.Deflection)
	}
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Cost != 500 || res.Risk != RiskLow || res.Strategy != KineticImpactor {
		t.Fatalf("strategy metadata wrong: %+v", res)
	}
}

func TestComputeDeflectionNuclearSucceeds(t *testing.T) {
	res, err := ComputeDeflection(NuclearDeflection, Asteroid{Size: 10, Velocity: 10, TimeToImpactDays: 365})
	if err != nil {
		t.Fatalf("ComputeDeflection: %v", err)
	}
	if !near(res.Deflection, 8.1, 1e-9) {
		t.Fatalf("deflection = %v, want 8.1", res.Deflection)
	}
	if !res.Success {
		t.Fatalf("expected success")
	}
}

func TestComputeDeflectionClampsFactors(t *testing.T) {
	res, err := ComputeDeflection(GravityTractor, Asteroid{Size: 200, Velocity: 40, TimeToImpactDays: 0})
	if err != nil {
		t.Fatalf("ComputeDeflection: %v", err)
	}
	if !near(res.Deflection, 0.009, 1e-12) {
		t.Fatalf("deflection = %v, want 0.009", res.Deflection)
	}
}

func TestComputeDeflectionSuccessThreshold(t *testing.T) {
	for _, s := range Strategies() {
		for size := 1.0; size < 150; size += 7 {
			for vel := 1.0; vel < 40; vel += 3 {
				for _, days := range []float64{0, 30, 180, 365, 1000, 3650} {
					res, err := ComputeDeflection(s.ID, Asteroid{Size: size, Velocity: vel, TimeToImpactDays: days})
					if err != nil {
						t.Fatalf("%s: %v", s.ID, err)
					}
					if res.Success != (res.Deflection > 5) {
						t.Fatalf("%s size %v vel %v days %v: success %v for deflection %v", s.ID, size, vel, days, res.Success, res.Deflection)
					}
				}
			}
		}
	}
}

func TestComputeDeflectionRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		id   StrategyID
		a    Asteroid
	}{
		{"unknown strategy", "ion-beam", Asteroid{Size: 10, Velocity: 10, TimeToImpactDays: 10}},
		{"zero size", KineticImpactor, Asteroid{Size: 0, Velocity: 10, TimeToImpactDays: 10}},
		{"negative velocity", LaserAblation, Asteroid{Size: 10, Velocity: -1, TimeToImpactDays: 10}},
		{"negative days", GravityTractor, Asteroid{Size: 10, Velocity: 10, TimeToImpactDays: -1}},
		{"nan days", GravityTractor, Asteroid{Size: 10, Velocity: 10, TimeToImpactDays: math.NaN()}},
	}
	for _, c := range cases {
		if _, err := ComputeDeflection(c.id, c.a); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("%s: err = %v, want ErrInvalidParameter", c.name, err)
		}
	}
}

func TestComputeDeflectionIdempotent(t *testing.T) {
	a := Asteroid{Size: 42, Velocity: 12, TimeToImpactDays: 700}
	r1, _ := ComputeDeflection(LaserAblation, a)
	r2, _ := ComputeDeflection(LaserAblation, a)
	if r1 != r2 {
		t.Fatalf("results differ: %+v vs %+v", r1, r2)
	}
}

func TestStrategiesReturnsCopy(t *testing.T) {
	s := Strategies()
	s[0].Effectiveness = 99
	if got, _ := LookupStrategy(KineticImpactor); got.Effectiveness != 0.8 {
		t.Fatalf("table mutated through copy: %v", got.Effectiveness)
	}
	if len(s) != 4 {
		t.Fatalf("len = %d, want 4", len(s))
	}
}
