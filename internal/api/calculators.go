package api

import (
	"net/http"
	"strconv"

	"aegis-net/internal/logging"
	"aegis-net/internal/physics"
	"aegis-net/internal/results"
)

const sourceCalculator = "calculator"

type impactResponse struct {
	physics.ImpactResult
	Risk physics.Risk `json:"risk"`
}

// deflectionRequest accepts the asteroid as size or asteroidSize.
type deflectionRequest struct {
	Strategy     physics.StrategyID `json:"strategy"`
	AsteroidSize *float64           `json:"asteroidSize,omitempty"`
	physics.Asteroid
}

func wantRounded(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("round"))
	return v
}

func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	var p physics.ImpactParameters
	if err := decode(w, r, &p); err != nil {
		fail(w, err)
		return
	}
	res, err := physics.ComputeImpact(p)
	s.deps.Metrics.ObserveComputation("impact", err)
	if err != nil {
		fail(w, err)
		return
	}
	if err := s.deps.Writer.WriteImpact(results.NewImpactRow(w.Header().Get(requestIDHeader), "api", p, res, s.now().UTC())); err != nil {
		logging.FromContext(r.Context()).Warn("record impact", "err", err)
	}
	if wantRounded(r) {
		res = res.Rounded()
	}
	ok(w, sourceCalculator, impactResponse{ImpactResult: res, Risk: physics.RiskLevel(res.ImpactEnergy)})
}

// handleDeflection evaluates one strategy, or all of them when none is named.
func (s *Server) handleDeflection(w http.ResponseWriter, r *http.Request) {
	var req deflectionRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, err)
		return
	}
	if req.AsteroidSize != nil && req.Size == 0 {
		req.Size = *req.AsteroidSize
	}
	ids := []physics.StrategyID{req.Strategy}
	if req.Strategy == "" {
		ids = ids[:0]
		for _, st := range physics.Strategies() {
			ids = append(ids, st.ID)
		}
	}
	var out []physics.DeflectionResult
	for _, id := range ids {
		res, err := physics.ComputeDeflection(id, req.Asteroid)
		s.deps.Metrics.ObserveComputation("deflection", err)
		if err != nil {
			fail(w, err)
			return
		}
		if err := s.deps.Writer.WriteDeflection(results.NewDeflectionRow(w.Header().Get(requestIDHeader), "api", req.Asteroid, res, s.now().UTC())); err != nil {
			logging.FromContext(r.Context()).Warn("record deflection", "err", err)
		}
		out = append(out, res)
	}
	if req.Strategy != "" {
		ok(w, sourceCalculator, out[0])
		return
	}
	okList(w, sourceCalculator, out)
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	okList(w, sourceCalculator, physics.Strategies())
}

type historicalView struct {
	physics.HistoricalImpact
	Estimate physics.ImpactResult `json:"estimate"`
}

func historical(h physics.HistoricalImpact) historicalView {
	v := historicalView{HistoricalImpact: h}
	if res, err := physics.ComputeImpact(h.Parameters()); err == nil {
		v.Estimate = res.Rounded()
	}
	return v
}

// handleHistorical lists the reference events with the calculator's estimate
// for each, or one event with ?name=.
func (s *Server) handleHistorical(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		h, found := physics.LookupHistorical(name)
		if !found {
			fail(w, errNotFoundf("historical impact %q", name))
			return
		}
		ok(w, sourceCalculator, historical(h))
		return
	}
	var out []historicalView
	for _, h := range physics.HistoricalImpacts() {
		out = append(out, historical(h))
	}
	okList(w, sourceCalculator, out)
}
