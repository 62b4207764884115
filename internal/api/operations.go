package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"aegis-net/internal/alerts"
	"aegis-net/internal/logging"
	"aegis-net/internal/orbit"
)

const (
	sourceSGP4   = "sgp4"
	sourceHub    = "alerts"
	sourceSystem = "system"

	maxTrackPoints = 1440
)

type neossatData struct {
	Position orbit.SubPoint   `json:"position"`
	Track    []orbit.SubPoint `json:"track,omitempty"`
}

// handleNEOSSat reports the spacecraft's current sub-satellite point. With
// ?points=N&step=D it also returns a ground track starting now.
func (s *Server) handleNEOSSat(w http.ResponseWriter, r *http.Request) {
	if s.deps.Tracker == nil {
		fail(w, fmt.Errorf("%w: no NEOSSat elements configured", errUnavailable))
		return
	}
	now := s.now().UTC()
	pos, err := s.deps.Tracker.Position(now)
	if err != nil {
		fail(w, err)
		return
	}
	data := neossatData{Position: pos}

	q := r.URL.Query()
	if v := q.Get("points"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxTrackPoints {
			fail(w, errBadRequestf("points must be between 1 and %d", maxTrackPoints))
			return
		}
		step := time.Minute
		if v := q.Get("step"); v != "" {
			if step, err = time.ParseDuration(v); err != nil || step <= 0 {
				fail(w, errBadRequestf("step must be a positive duration"))
				return
			}
		}
		if data.Track, err = s.deps.Tracker.Track(now, step, n); err != nil {
			fail(w, err)
			return
		}
	}
	info := orbit.NEOSSatMission()
	writeJSON(w, http.StatusOK, envelope{
		Success:     true,
		Data:        data,
		Source:      sourceSGP4,
		MissionInfo: &info,
		DataSources: orbit.DataSources(),
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	okList(w, sourceHub, s.deps.Alerts.History())
}

func (s *Server) handlePublishAlert(w http.ResponseWriter, r *http.Request) {
	var a alerts.Alert
	if err := decode(w, r, &a); err != nil {
		fail(w, err)
		return
	}
	sent, err := s.deps.Alerts.Publish(r.Context(), a)
	if err != nil {
		fail(w, err)
		return
	}
	logging.FromContext(r.Context()).Info("alert published", "id", sent.ID, "severity", sent.Severity, "area", sent.TargetArea)
	okMessage(w, sourceHub, "Alert sent", sent)
}

func (s *Server) handleAlertStream(w http.ResponseWriter, r *http.Request) {
	s.deps.Alerts.ServeWS(w, r)
}

type healthReport struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"calculator": "healthy",
		"catalog":    "disabled",
		"resources":  "disabled",
		"predictor":  "disabled",
		"alerts":     "disabled",
		"neossat":    "disabled",
	}
	if s.deps.Catalog != nil {
		services["catalog"] = "healthy"
	}
	if s.deps.Resources != nil {
		services["resources"] = "healthy"
	}
	if s.deps.Predictor != nil {
		services["predictor"] = "healthy"
	}
	if s.deps.Alerts != nil {
		services["alerts"] = fmt.Sprintf("healthy (%d subscribers)", s.deps.Alerts.Subscribers())
	}
	if s.deps.Tracker != nil {
		services["neossat"] = "healthy"
	}
	ok(w, sourceSystem, healthReport{
		Status:    "operational",
		Timestamp: s.now().UTC(),
		Version:   s.deps.Version,
		Services:  services,
	})
}
