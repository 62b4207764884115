package scenario

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"aegis-net/internal/physics"
	"aegis-net/internal/predict"
)

// Report is the evaluated scenario.
type Report struct {
	Scenario    string                     `json:"scenario"`
	Impact      physics.ImpactResult       `json:"impact"`
	Risk        physics.Risk               `json:"risk"`
	Deflections []physics.DeflectionResult `json:"deflections"`
	// Best is the recommended strategy, nil when none succeeds.
	Best       *physics.DeflectionResult `json:"best,omitempty"`
	Prediction *predict.Prediction       `json:"prediction,omitempty"`
}

// Evaluate runs the impact calculator, every selected strategy and, when the
// scenario has a location and p is non-nil, the consequence predictor.
func Evaluate(ctx context.Context, s Scenario, p predict.Predictor) (Report, error) {
	ctx, span := otel.Tracer("aegis-net/scenario").Start(ctx, "scenario.evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("scenario", s.Name))

	if err := s.Validate(); err != nil {
		return Report{}, err
	}
	impact, err := physics.ComputeImpact(s.Impact)
	if err != nil {
		return Report{}, fmt.Errorf("impact: %w", err)
	}
	rep := Report{
		Scenario: s.Name,
		Impact:   impact,
		Risk:     physics.RiskLevel(impact.ImpactEnergy),
	}
	for _, id := range s.strategies() {
		d, err := physics.ComputeDeflection(id, s.asteroid())
		if err != nil {
			return Report{}, fmt.Errorf("deflection %s: %w", id, err)
		}
		rep.Deflections = append(rep.Deflections, d)
	}
	rep.Best = pickBest(rep.Deflections)

	if p != nil && s.Location != nil {
		pred, err := p.Predict(ctx, predict.Request{AsteroidData: predict.AsteroidData{
			Diameter:       s.Impact.AsteroidSize,
			Velocity:       s.Impact.Velocity,
			ImpactLocation: *s.Location,
			Density:        s.Impact.Composition.Density(),
		}})
		if err != nil {
			return Report{}, fmt.Errorf("predict: %w", err)
		}
		rep.Prediction = &pred
	}
	return rep, nil
}

// pickBest returns the successful result with the largest deflection, ties
// going to the cheaper strategy.
func pickBest(rs []physics.DeflectionResult) *physics.DeflectionResult {
	var best *physics.DeflectionResult
	for i := range rs {
		r := &rs[i]
		if !r.Success {
			continue
		}
		if best == nil || r.Deflection > best.Deflection ||
			(r.Deflection == best.Deflection && r.Cost < best.Cost) {
			best = r
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}
