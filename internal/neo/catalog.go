// Package neo tracks near-Earth objects of interest.
package neo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"aegis-net/internal/geo"
	"aegis-net/internal/physics"
)

var ErrNotFound = errors.New("object not found")

// TrajectoryPoint is a ground-track sample; T is hours from the first sample.
type TrajectoryPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
	T   float64 `json:"t" yaml:"t"`
}

// Object is a tracked asteroid.
type Object struct {
	ID                string              `json:"id" yaml:"id"`
	Name              string              `json:"name" yaml:"name"`
	Diameter          float64             `json:"diameter" yaml:"diameter"`
	Velocity          float64             `json:"velocity" yaml:"velocity"`
	Composition       physics.Composition `json:"composition" yaml:"composition"`
	ImpactProbability float64             `json:"impactProbability" yaml:"impact_probability"`
	ImpactTime        time.Time           `json:"impactTime" yaml:"impact_time"`
	ImpactLocation    geo.Point           `json:"impactLocation" yaml:"impact_location"`
	Trajectory        []TrajectoryPoint   `json:"trajectory,omitempty" yaml:"trajectory"`
}

// Validate checks the physical fields.
func (o Object) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return &physics.InvalidParameterError{Field: "id", Value: o.ID, Reason: "must not be empty"}
	}
	if o.ImpactProbability < 0 || o.ImpactProbability > 1 {
		return &physics.InvalidParameterError{Field: "impactProbability", Value: o.ImpactProbability, Reason: "must be between 0 and 1"}
	}
	if !o.ImpactLocation.Valid() {
		return &physics.InvalidParameterError{Field: "impactLocation", Value: o.ImpactLocation, Reason: "latitude or longitude out of range"}
	}
	return o.ImpactParameters(45).Validate()
}

// ImpactParameters loads the object into the impact calculator. A missing
// composition is treated as stone.
func (o Object) ImpactParameters(angle float64) physics.ImpactParameters {
	c := o.Composition
	if c == "" {
		c = physics.Stone
	}
	return physics.ImpactParameters{AsteroidSize: o.Diameter, Velocity: o.Velocity, Angle: angle, Composition: c}
}

// DaysToImpact is the lead time from now, floored at zero.
func (o Object) DaysToImpact(now time.Time) float64 {
	d := o.ImpactTime.Sub(now).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}

// Catalog is a concurrency-safe object store.
type Catalog struct {
	mu      sync.RWMutex
	objects map[string]Object
}

func NewCatalog(objs []Object) (*Catalog, error) {
	c := &Catalog{objects: make(map[string]Object, len(objs))}
	for _, o := range objs {
		if _, err := c.Upsert(o); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// List returns objects sorted by impact probability, highest first.
func (c *Catalog) List() []Object {
	c.mu.RLock()
	out := make([]Object, 0, len(c.objects))
	for _, o := range c.objects {
		out = append(out, clone(o))
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].ImpactProbability != out[j].ImpactProbability {
			return out[i].ImpactProbability > out[j].ImpactProbability
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c *Catalog) Get(id string) (Object, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.objects[id]
	if !ok {
		return Object{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return clone(o), nil
}

// Upsert stores o and reports whether it replaced an existing entry.
func (c *Catalog) Upsert(o Object) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, existed := c.objects[o.ID]
	c.objects[o.ID] = clone(o)
	return existed, nil
}

func clone(o Object) Object {
	if o.Trajectory != nil {
		o.Trajectory = append([]TrajectoryPoint(nil), o.Trajectory...)
	}
	return o
}
