package predict

import (
	"context"
	"errors"
	"testing"
	"time"

	"aegis-net/internal/geo"
	"aegis-net/internal/physics"
)

var nyc = geo.Point{Lat: 40.7128, Lng: -74.0060}

func fixedHeuristic() *Heuristic {
	h := NewHeuristic(Options{})
	ts := time.Unix(0, 0)
	h.now = func() time.Time { return ts }
	return h
}

func TestHeuristicLargeCoastalImpact(t *testing.T) {
	p, err := fixedHeuristic().Predict(context.Background(), Request{
		AsteroidData: AsteroidData{Diameter: 150, Velocity: 15.2, ImpactLocation: nyc},
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	b := p.Blast
	if b.BlastRadius != 52.7 || b.ThermalRadius != 79.05 || b.SeismicRadius != 105.4 || b.AirburstHeight != 1.5 {
		t.Fatalf("blast = %+v", b)
	}
	if !p.Tsunami.TsunamiRisk || *p.Tsunami.WaveHeight != 15 || *p.Tsunami.CoastalImpactRadius != 158.1 {
		t.Fatalf("tsunami = %+v", p.Tsunami)
	}
	if p.RiskAssessment.RiskLevel != physics.RiskHigh || len(p.RiskAssessment.RiskFactors) != 2 {
		t.Fatalf("risk = %+v", p.RiskAssessment)
	}
	ra := p.ResourceAllocation
	if ra.EstimatedEvacuees != 52700 || ra.SheltersNeeded != 105 || ra.HospitalsNeeded != 52 || ra.EvacuationCentersNeeded != 26 {
		t.Fatalf("allocation = %+v", ra)
	}
	if ra.ResourceShortageRisk != physics.RiskHigh {
		t.Fatalf("shortage = %s", ra.ResourceShortageRisk)
	}
	if p.Debris.DispersionRadius != 131.75 {
		t.Fatalf("dispersion = %v", p.Debris.DispersionRadius)
	}
	if p.ProcessingTime != 0 {
		t.Fatalf("processing time = %v", p.ProcessingTime)
	}
}

func TestHeuristicRoutesSortedBySafetyThenTime(t *testing.T) {
	p, err := fixedHeuristic().Predict(context.Background(), Request{
		AsteroidData: AsteroidData{Diameter: 150, Velocity: 15.2, ImpactLocation: nyc},
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(p.EvacuationRoutes) != 3 {
		t.Fatalf("routes = %d", len(p.EvacuationRoutes))
	}
	wantDist := []float64{8.51, 6.48, 5.42}
	for i, r := range p.EvacuationRoutes {
		if r.Distance != wantDist[i] {
			t.Fatalf("route %d distance = %v, want %v", i, r.Distance, wantDist[i])
		}
		if r.TrafficLevel != "heavy" || r.SafetyScore != 0.2 || r.Capacity != 400 {
			t.Fatalf("route %d inside blast zone = %+v", i, r)
		}
	}
	if p.EvacuationRoutes[0].RouteID != "route_2" {
		t.Fatalf("first route = %s, want route_2", p.EvacuationRoutes[0].RouteID)
	}
}

func TestHeuristicSmallInlandImpact(t *testing.T) {
	p, err := fixedHeuristic().Predict(context.Background(), Request{
		AsteroidData: AsteroidData{Diameter: 20, Velocity: 17, ImpactLocation: geo.Point{Lat: 45, Lng: -100}},
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if p.Blast.BlastRadius != 7.57 {
		t.Fatalf("blast radius = %v", p.Blast.BlastRadius)
	}
	if p.Tsunami.TsunamiRisk || p.Tsunami.WaveHeight != nil {
		t.Fatalf("unexpected tsunami %+v", p.Tsunami)
	}
	if p.RiskAssessment.RiskLevel != physics.RiskLow || len(p.RiskAssessment.RiskFactors) != 0 {
		t.Fatalf("risk = %+v", p.RiskAssessment)
	}
	for _, r := range p.EvacuationRoutes {
		if r.SafetyScore != 0.9 || r.TrafficLevel != "medium" || r.Capacity != 833 {
			t.Fatalf("distant route = %+v", r)
		}
	}
	ra := p.ResourceAllocation
	if ra.SheltersNeeded != 15 || ra.HospitalsNeeded != 7 || ra.EvacuationCentersNeeded != 3 || ra.ResourceShortageRisk != physics.RiskLow {
		t.Fatalf("allocation = %+v", ra)
	}
}

func TestHeuristicHighVelocityFactor(t *testing.T) {
	p, err := fixedHeuristic().Predict(context.Background(), Request{
		AsteroidData: AsteroidData{Diameter: 5, Velocity: 30, ImpactLocation: geo.Point{Lat: 0, Lng: 0}},
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	f := p.RiskAssessment.RiskFactors
	if len(f) != 1 || f[0] != "High velocity impact" {
		t.Fatalf("factors = %v", f)
	}
}

func TestHeuristicDebrisGrid(t *testing.T) {
	d := fixedHeuristic().debris(10)
	if len(d.ImpactProbabilityMap) != 20 || len(d.ImpactProbabilityMap[0]) != 20 {
		t.Fatalf("grid shape wrong")
	}
	if d.ImpactProbabilityMap[10][10] != 1 || d.ImpactProbabilityMap[0][0] != 0 || d.ImpactProbabilityMap[10][5] != 0.5 {
		t.Fatalf("unexpected probabilities: centre %v corner %v mid %v",
			d.ImpactProbabilityMap[10][10], d.ImpactProbabilityMap[0][0], d.ImpactProbabilityMap[10][5])
	}
}

func TestHeuristicRejectsInvalid(t *testing.T) {
	h := fixedHeuristic()
	cases := []AsteroidData{
		{Diameter: 0, Velocity: 10, ImpactLocation: nyc},
		{Diameter: 10, Velocity: -2, ImpactLocation: nyc},
		{Diameter: 10, Velocity: 2, ImpactLocation: geo.Point{Lat: 100}},
		{Diameter: 10, Velocity: 2, ImpactLocation: nyc, Density: -1},
	}
	for i, ad := range cases {
		if _, err := h.Predict(context.Background(), Request{AsteroidData: ad}); !errors.Is(err, physics.ErrInvalidParameter) {
			t.Fatalf("case %d: err = %v", i, err)
		}
	}
}

func TestHeuristicRejectsEnergyOverflow(t *testing.T) {
	_, err := fixedHeuristic().Predict(context.Background(), Request{
		AsteroidData: AsteroidData{Diameter: 1e110, Velocity: 20, ImpactLocation: nyc},
	})
	if !errors.Is(err, physics.ErrDomain) {
		t.Fatalf("err = %v, want ErrDomain", err)
	}
	var de *physics.DomainError
	if !errors.As(err, &de) || de.Quantity != "impact energy" {
		t.Fatalf("err = %#v", err)
	}
}
