// Package api serves the calculators, registries and alert stream over HTTP.
package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"aegis-net/internal/alerts"
	"aegis-net/internal/neo"
	"aegis-net/internal/observability"
	"aegis-net/internal/orbit"
	"aegis-net/internal/predict"
	"aegis-net/internal/resources"
	"aegis-net/internal/sink"
)

//go:embed templates/index.html
var content embed.FS

// Deps are the components behind the endpoints. Any of them may be nil:
// Writer and Metrics are then skipped, and routes needing a missing
// Catalog, Resources, Predictor, Tracker or Alerts answer 503.
type Deps struct {
	Catalog       *neo.Catalog
	Resources     *resources.Registry
	Predictor     predict.Predictor
	Tracker       *orbit.Tracker
	Alerts        *alerts.Hub
	Metrics       *observability.Collector
	Writer        sink.Writer
	DefaultTarget string
	Version       string
	Log           *slog.Logger
}

type Server struct {
	deps Deps
	tpl  *template.Template
	log  *slog.Logger
	now  func() time.Time
}

func NewServer(d Deps) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	if d.Writer == nil {
		d.Writer = sink.Discard{}
	}
	if d.Version == "" {
		d.Version = "dev"
	}
	return &Server{deps: d, tpl: tpl, log: log.With("component", "api"), now: time.Now}
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern, route string, h http.HandlerFunc) {
		mux.Handle(pattern, s.deps.Metrics.Middleware(route, h))
	}
	handle("POST /api/impact", "/api/impact", s.handleImpact)
	handle("POST /api/deflection", "/api/deflection", s.handleDeflection)
	handle("GET /api/strategies", "/api/strategies", s.handleStrategies)
	handle("GET /api/historical", "/api/historical", s.handleHistorical)
	catalog := func() bool { return s.deps.Catalog != nil }
	registry := func() bool { return s.deps.Resources != nil }
	hub := func() bool { return s.deps.Alerts != nil }
	handle("GET /api/asteroids", "/api/asteroids", s.requires("asteroid catalogue", catalog, s.handleAsteroids))
	handle("POST /api/asteroids", "/api/asteroids", s.requires("asteroid catalogue", catalog, s.handleReportAsteroid))
	handle("GET /api/resources", "/api/resources", s.requires("resource registry", registry, s.handleResources))
	handle("POST /api/resources", "/api/resources", s.requires("resource registry", registry, s.handleCreateResource))
	handle("PUT /api/resources", "/api/resources", s.requires("resource registry", registry, s.handleUpdateResource))
	handle("GET /api/ai/predictions", "/api/ai/predictions", s.requires("asteroid catalogue", catalog, s.handleDefaultPrediction))
	handle("POST /api/ai/predictions", "/api/ai/predictions", s.handlePrediction)
	handle("GET /api/neossat", "/api/neossat", s.handleNEOSSat)
	handle("GET /api/alerts", "/api/alerts", s.requires("alert hub", hub, s.handleAlerts))
	handle("POST /api/alerts", "/api/alerts", s.requires("alert hub", hub, s.handlePublishAlert))
	handle("GET /api/health", "/api/health", s.handleHealth)
	handle("GET /ws/alerts", "/ws/alerts", s.requires("alert hub", hub, s.handleAlertStream))
	if s.deps.Metrics != nil {
		mux.Handle("GET /metrics", s.deps.Metrics.Handler())
	}
	handle("GET /{$}", "/", s.handleIndex)
	return withTracing(withRequestLog(s.log, mux))
}

// requires answers 503 while present reports false.
func (s *Server) requires(name string, present func() bool, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !present() {
			fail(w, fmt.Errorf("%w: %s not configured", errUnavailable, name))
			return
		}
		h(w, r)
	}
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Version     string
		Objects     []neo.Object
		Resources   int
		Alerts      int
		Subscribers int
		Tracker     string
	}{
		Version: s.deps.Version,
	}
	if s.deps.Catalog != nil {
		data.Objects = s.deps.Catalog.List()
	}
	if s.deps.Resources != nil {
		data.Resources = s.deps.Resources.Len()
	}
	if s.deps.Alerts != nil {
		data.Alerts = len(s.deps.Alerts.History())
		data.Subscribers = s.deps.Alerts.Subscribers()
	}
	if s.deps.Tracker != nil {
		data.Tracker = s.deps.Tracker.Name()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		s.log.Error("render index", "err", err)
	}
}
