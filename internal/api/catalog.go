package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"aegis-net/internal/geo"
	"aegis-net/internal/logging"
	"aegis-net/internal/neo"
	"aegis-net/internal/predict"
	"aegis-net/internal/resources"
)

const (
	sourceCatalog   = "catalog"
	sourceRegistry  = "registry"
	sourceHeuristic = "heuristic"
)

func stripTrajectory(o neo.Object, keep bool) neo.Object {
	if !keep {
		o.Trajectory = nil
	}
	return o
}

// handleAsteroids returns one object with ?id= or the whole catalogue.
// Trajectories are included only with ?trajectory=true.
func (s *Server) handleAsteroids(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	withTrajectory := q.Get("trajectory") == "true"
	if id := q.Get("id"); id != "" {
		o, err := s.deps.Catalog.Get(id)
		if err != nil {
			fail(w, err)
			return
		}
		ok(w, sourceCatalog, stripTrajectory(o, withTrajectory))
		return
	}
	objs := s.deps.Catalog.List()
	for i := range objs {
		objs[i] = stripTrajectory(objs[i], withTrajectory)
	}
	okList(w, sourceCatalog, objs)
}

// handleReportAsteroid records an observation, replacing an object with the
// same id.
func (s *Server) handleReportAsteroid(w http.ResponseWriter, r *http.Request) {
	var o neo.Object
	if err := decode(w, r, &o); err != nil {
		fail(w, err)
		return
	}
	replaced, err := s.deps.Catalog.Upsert(o)
	if err != nil {
		fail(w, err)
		return
	}
	msg := "Asteroid data created successfully"
	if replaced {
		msg = "Asteroid data updated successfully"
	}
	logging.FromContext(r.Context()).Info("asteroid reported", "id", o.ID, "replaced", replaced)
	okMessage(w, sourceCatalog, msg, o)
}

func parseFloatParam(q map[string][]string, key string) (float64, bool, error) {
	vals := q[key]
	if len(vals) == 0 || vals[0] == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(vals[0], 64)
	if err != nil {
		return 0, false, errBadRequestf("%s must be a number", key)
	}
	return f, true, nil
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := resources.Filter{
		Type:   resources.Type(q.Get("type")),
		Status: resources.Status(q.Get("status")),
	}
	if f.Type != "" && !f.Type.Valid() {
		fail(w, errBadRequestf("unknown resource type %q", f.Type))
		return
	}
	if f.Status != "" && !f.Status.Valid() {
		fail(w, errBadRequestf("unknown resource status %q", f.Status))
		return
	}
	lat, hasLat, err := parseFloatParam(q, "lat")
	if err != nil {
		fail(w, err)
		return
	}
	lng, hasLng, err := parseFloatParam(q, "lng")
	if err != nil {
		fail(w, err)
		return
	}
	radius, _, err := parseFloatParam(q, "radius")
	if err != nil {
		fail(w, err)
		return
	}
	if hasLat && hasLng {
		p := geo.Point{Lat: lat, Lng: lng}
		if !p.Valid() {
			fail(w, errBadRequestf("location out of range"))
			return
		}
		f.Near = &p
		f.RadiusKM = radius
	}
	okList(w, sourceRegistry, s.deps.Resources.List(f))
}

func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var res resources.Resource
	if err := decode(w, r, &res); err != nil {
		fail(w, err)
		return
	}
	created, err := s.deps.Resources.Create(res)
	if err != nil {
		fail(w, err)
		return
	}
	okMessage(w, sourceRegistry, "Resource created successfully", created)
}

type resourceUpdate struct {
	ID string `json:"id"`
	resources.Patch
}

func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	var req resourceUpdate
	if err := decode(w, r, &req); err != nil {
		fail(w, err)
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		fail(w, errBadRequestf("resource id is required"))
		return
	}
	updated, err := s.deps.Resources.Update(req.ID, req.Patch)
	if err != nil {
		fail(w, err)
		return
	}
	okMessage(w, sourceRegistry, "Resource updated successfully", updated)
}

// handleDefaultPrediction predicts the configured watch object, or ?id=.
func (s *Server) handleDefaultPrediction(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		id = s.deps.DefaultTarget
	}
	if id == "" {
		fail(w, errNotFoundf("no default prediction target configured"))
		return
	}
	o, err := s.deps.Catalog.Get(id)
	if err != nil {
		fail(w, err)
		return
	}
	s.predict(w, r, predict.Request{AsteroidData: predict.AsteroidData{
		Diameter:       o.Diameter,
		Velocity:       o.Velocity,
		ImpactLocation: o.ImpactLocation,
		ImpactTime:     o.ImpactTime.UTC().Format("2006-01-02T15:04:05Z"),
		Density:        o.ImpactParameters(45).Composition.Density(),
	}})
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	var req predict.Request
	if err := decode(w, r, &req); err != nil {
		fail(w, err)
		return
	}
	s.predict(w, r, req)
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request, req predict.Request) {
	if s.deps.Predictor == nil {
		fail(w, fmt.Errorf("%w: predictor not configured", errUnavailable))
		return
	}
	p, err := s.deps.Predictor.Predict(r.Context(), req)
	s.deps.Metrics.ObserveComputation("prediction", err)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, sourceHeuristic, p)
}
