// Package resources keeps the registry of emergency facilities: shelters,
// hospitals and evacuation centres.
package resources

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"aegis-net/internal/geo"
)

type Type string

const (
	Shelter          Type = "shelter"
	Hospital         Type = "hospital"
	EvacuationCenter Type = "evacuation_center"
)

func (t Type) Valid() bool {
	return t == Shelter || t == Hospital || t == EvacuationCenter
}

type Status string

const (
	Available Status = "available"
	Full      Status = "full"
	Evacuated Status = "evacuated"
)

func (s Status) Valid() bool {
	return s == Available || s == Full || s == Evacuated
}

// DefaultRadiusKM applies when a location filter omits the radius.
const DefaultRadiusKM = 50.0

var (
	ErrNotFound     = errors.New("resource not found")
	ErrMissingField = errors.New("missing required field")
	ErrInvalid      = errors.New("invalid resource")
)

// Resource is one facility.
type Resource struct {
	ID               string    `json:"id" yaml:"id"`
	Type             Type      `json:"type" yaml:"type"`
	Name             string    `json:"name" yaml:"name"`
	Capacity         int       `json:"capacity" yaml:"capacity"`
	CurrentOccupancy int       `json:"currentOccupancy" yaml:"current_occupancy"`
	Location         geo.Point `json:"location" yaml:"location"`
	Status           Status    `json:"status" yaml:"status"`
	Address          string    `json:"address" yaml:"address"`
	Phone            string    `json:"phone" yaml:"phone"`
	Facilities       []string  `json:"facilities" yaml:"facilities"`
	LastUpdated      time.Time `json:"lastUpdated" yaml:"-"`
}

// Occupancy returns the fraction of capacity in use.
func (r Resource) Occupancy() float64 {
	if r.Capacity <= 0 {
		return 0
	}
	return float64(r.CurrentOccupancy) / float64(r.Capacity)
}

// Filter narrows List. Zero values match everything. Near and RadiusKM
// select facilities within a great-circle radius.
type Filter struct {
	Type     Type
	Status   Status
	Near     *geo.Point
	RadiusKM float64
}

// Patch holds the fields an update may change; nil means unchanged.
type Patch struct {
	Type             *Type      `json:"type,omitempty"`
	Name             *string    `json:"name,omitempty"`
	Capacity         *int       `json:"capacity,omitempty"`
	CurrentOccupancy *int       `json:"currentOccupancy,omitempty"`
	Location         *geo.Point `json:"location,omitempty"`
	Status           *Status    `json:"status,omitempty"`
	Address          *string    `json:"address,omitempty"`
	Phone            *string    `json:"phone,omitempty"`
	Facilities       []string   `json:"facilities,omitempty"`
}

// Registry is a concurrency-safe in-memory store ordered by insertion.
type Registry struct {
	mu    sync.RWMutex
	items []Resource
	now   func() time.Time
}

// NewRegistry seeds a registry. Seed entries without an id get one.
func NewRegistry(seed []Resource) *Registry {
	r := &Registry{now: time.Now}
	for _, s := range seed {
		if s.ID == "" {
			s.ID = newID()
		}
		if s.Status == "" {
			s.Status = Available
		}
		s.LastUpdated = r.now().UTC()
		r.items = append(r.items, clone(s))
	}
	return r
}

// List returns matching resources, closest first when a location is given.
func (r *Registry) List(f Filter) []Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	radius := f.RadiusKM
	if radius <= 0 {
		radius = DefaultRadiusKM
	}
	out := make([]Resource, 0, len(r.items))
	dist := make(map[string]float64)
	for _, res := range r.items {
		if f.Type != "" && res.Type != f.Type {
			continue
		}
		if f.Status != "" && res.Status != f.Status {
			continue
		}
		if f.Near != nil {
			d := geo.DistanceKM(*f.Near, res.Location)
			if d > radius {
				continue
			}
			dist[res.ID] = d
		}
		out = append(out, clone(res))
	}
	if f.Near != nil {
		sort.SliceStable(out, func(i, j int) bool { return dist[out[i].ID] < dist[out[j].ID] })
	}
	return out
}

// Get returns the resource with id.
func (r *Registry) Get(id string) (Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.items {
		if res.ID == id {
			return clone(res), nil
		}
	}
	return Resource{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create validates and stores res under a fresh id.
func (r *Registry) Create(res Resource) (Resource, error) {
	if err := checkRequired(res); err != nil {
		return Resource{}, err
	}
	if res.Status == "" {
		res.Status = Available
	}
	if err := checkValues(res); err != nil {
		return Resource{}, err
	}
	if res.Facilities == nil {
		res.Facilities = []string{}
	}
	res.ID = newID()
	res.LastUpdated = r.now().UTC()

	r.mu.Lock()
	r.items = append(r.items, clone(res))
	r.mu.Unlock()
	return res, nil
}

// Update merges p into the resource with id.
func (r *Registry) Update(id string, p Patch) (Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, res := range r.items {
		if res.ID != id {
			continue
		}
		next := apply(res, p)
		if err := checkValues(next); err != nil {
			return Resource{}, err
		}
		next.LastUpdated = r.now().UTC()
		r.items[i] = clone(next)
		return clone(next), nil
	}
	return Resource{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Len reports the number of stored resources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func checkRequired(res Resource) error {
	switch {
	case res.Type == "":
		return fmt.Errorf("%w: type", ErrMissingField)
	case res.Name == "":
		return fmt.Errorf("%w: name", ErrMissingField)
	case res.Capacity == 0:
		return fmt.Errorf("%w: capacity", ErrMissingField)
	case res.Location == (geo.Point{}):
		return fmt.Errorf("%w: location", ErrMissingField)
	case res.Address == "":
		return fmt.Errorf("%w: address", ErrMissingField)
	case res.Phone == "":
		return fmt.Errorf("%w: phone", ErrMissingField)
	}
	return nil
}

func checkValues(res Resource) error {
	if !res.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, res.Type)
	}
	if !res.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, res.Status)
	}
	if res.Capacity < 0 || res.CurrentOccupancy < 0 {
		return fmt.Errorf("%w: capacity and occupancy must be non-negative", ErrInvalid)
	}
	if !res.Location.Valid() {
		return fmt.Errorf("%w: location out of range", ErrInvalid)
	}
	return nil
}

func apply(res Resource, p Patch) Resource {
	if p.Type != nil {
		res.Type = *p.Type
	}
	if p.Name != nil {
		res.Name = *p.Name
	}
	if p.Capacity != nil {
		res.Capacity = *p.Capacity
	}
	if p.CurrentOccupancy != nil {
		res.CurrentOccupancy = *p.CurrentOccupancy
	}
	if p.Location != nil {
		res.Location = *p.Location
	}
	if p.Status != nil {
		res.Status = *p.Status
	}
	if p.Address != nil {
		res.Address = *p.Address
	}
	if p.Phone != nil {
		res.Phone = *p.Phone
	}
	if p.Facilities != nil {
		res.Facilities = p.Facilities
	}
	return res
}

func clone(r Resource) Resource {
	if r.Facilities != nil {
		r.Facilities = append([]string(nil), r.Facilities...)
	}
	return r
}

func newID() string { return "resource-" + uuid.NewString() }
