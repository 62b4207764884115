// Package sweep runs the impact and deflection calculators over a parameter
// grid and hands the rows to a sink.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"aegis-net/internal/config"
	"aegis-net/internal/logging"
	"aegis-net/internal/observability"
	"aegis-net/internal/physics"
	"aegis-net/internal/results"
	"aegis-net/internal/sink"
)

// Summary counts what a run produced.
type Summary struct {
	RunID       string `json:"run_id"`
	Points      int    `json:"points"`
	Impacts     int    `json:"impacts"`
	Deflections int    `json:"deflections"`
	Skipped     int    `json:"skipped"`
}

// Runner expands a SweepConfig grid.
type Runner struct {
	cfg     config.SweepConfig
	writer  sink.Writer
	metrics *observability.Collector
	label   string

	now   func() time.Time
	newID func() string
}

// NewRunner creates a Runner. metrics may be nil.
func NewRunner(cfg config.SweepConfig, w sink.Writer, metrics *observability.Collector) *Runner {
	return &Runner{
		cfg:     cfg,
		writer:  w,
		metrics: metrics,
		label:   "sweep",
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (r *Runner) strategies() []physics.StrategyID {
	if len(r.cfg.Strategies) > 0 {
		return r.cfg.Strategies
	}
	var ids []physics.StrategyID
	for _, s := range physics.Strategies() {
		ids = append(ids, s.ID)
	}
	return ids
}

// Run walks every (size, velocity) grid point. With a non-zero interval the
// points are paced by a ticker. A cancelled context stops the run and returns
// the partial summary with ctx.Err().
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	log := logging.FromContext(ctx)
	sum := Summary{RunID: r.newID()}

	sizes, err := r.cfg.Sizes.Values()
	if err != nil {
		return sum, fmt.Errorf("sizes: %w", err)
	}
	velocities, err := r.cfg.Velocities.Values()
	if err != nil {
		return sum, fmt.Errorf("velocities: %w", err)
	}
	ctx, span := otel.Tracer("aegis-net/sweep").Start(ctx, "sweep.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", sum.RunID),
		attribute.Int("grid_points", len(sizes)*len(velocities)),
	)
	log.Info("starting sweep", "run_id", sum.RunID, "sizes", len(sizes), "velocities", len(velocities), "interval", r.cfg.Interval)

	var tick <-chan time.Time
	if r.cfg.Interval > 0 {
		ticker := time.NewTicker(r.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	first := true
	for _, size := range sizes {
		for _, vel := range velocities {
			if err := ctx.Err(); err != nil {
				log.Info("sweep cancelled", "run_id", sum.RunID, "points", sum.Points)
				return sum, err
			}
			if tick != nil && !first {
				select {
				case <-tick:
				case <-ctx.Done():
					log.Info("sweep cancelled", "run_id", sum.RunID, "points", sum.Points)
					return sum, ctx.Err()
				}
			}
			first = false
			if err := r.point(ctx, &sum, size, vel); err != nil {
				span.RecordError(err)
				return sum, err
			}
		}
	}
	log.Info("sweep complete", "run_id", sum.RunID, "points", sum.Points, "impacts", sum.Impacts,
		"deflections", sum.Deflections, "skipped", sum.Skipped)
	return sum, nil
}

// point computes and writes the rows of one grid point. Only sink errors are
// returned; invalid parameter combinations are counted as skipped.
func (r *Runner) point(ctx context.Context, sum *Summary, size, vel float64) error {
	log := logging.FromContext(ctx)
	ts := r.now()
	sum.Points++

	var impacts []results.ImpactRow
	for _, comp := range r.cfg.Compositions {
		p := physics.ImpactParameters{AsteroidSize: size, Velocity: vel, Angle: r.cfg.Angle, Composition: comp}
		res, err := physics.ComputeImpact(p)
		r.metrics.ObserveComputation("impact", err)
		if err != nil {
			log.Debug("skipping impact point", "size", size, "velocity", vel, "composition", comp, "err", err)
			sum.Skipped++
			continue
		}
		impacts = append(impacts, results.NewImpactRow(sum.RunID, r.label, p, res, ts))
	}

	var deflections []results.DeflectionRow
	for _, id := range r.strategies() {
		for _, days := range r.cfg.LeadTimesDays {
			a := physics.Asteroid{Size: size, Velocity: vel, TimeToImpactDays: days}
			res, err := physics.ComputeDeflection(id, a)
			r.metrics.ObserveComputation("deflection", err)
			if err != nil {
				log.Debug("skipping deflection point", "strategy", id, "size", size, "days", days, "err", err)
				sum.Skipped++
				continue
			}
			deflections = append(deflections, results.NewDeflectionRow(sum.RunID, r.label, a, res, ts))
		}
	}

	if err := sink.WriteImpacts(r.writer, impacts); err != nil {
		return err
	}
	sum.Impacts += len(impacts)
	if err := sink.WriteDeflections(r.writer, deflections); err != nil {
		return err
	}
	sum.Deflections += len(deflections)
	return nil
}
