// Package observability wires Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the service metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests     *prometheus.CounterVec
	HTTPDurations    *prometheus.HistogramVec
	Computations     *prometheus.CounterVec
	AlertSubscribers prometheus.Gauge
	RowsWritten      *prometheus.CounterVec
}

// NewCollector registers metrics against reg, defaulting to the global
// registry when nil. Registering twice returns the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aegis_http_requests_total",
		Help: "HTTP requests handled, labeled by route, method and status code.",
	}, []string{"route", "method", "code"}), "aegis_http_requests_total")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aegis_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route", "method"}), "aegis_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}
	computations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aegis_computations_total",
		Help: "Calculator invocations, labeled by kind and outcome.",
	}, []string{"kind", "outcome"}), "aegis_computations_total")
	if err != nil {
		return nil, err
	}
	subscribers, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "aegis_alert_subscribers",
		Help: "Connected alert websocket subscribers.",
	}), "aegis_alert_subscribers")
	if err != nil {
		return nil, err
	}
	rows, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aegis_rows_written_total",
		Help: "Result rows handed to sinks, labeled by table.",
	}, []string{"table"}), "aegis_rows_written_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		HTTPRequests:     requests,
		HTTPDurations:    durations,
		Computations:     computations,
		AlertSubscribers: subscribers,
		RowsWritten:      rows,
	}, nil
}

// ObserveComputation counts one calculator call.
func (c *Collector) ObserveComputation(kind string, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Computations.WithLabelValues(kind, outcome).Inc()
}

// ObserveRows counts n rows written to table.
func (c *Collector) ObserveRows(table string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.RowsWritten.WithLabelValues(table).Add(float64(n))
}

// Middleware records request counts and durations under route.
func (c *Collector) Middleware(route string, next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		c.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		c.HTTPDurations.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack passes websocket upgrades through to the underlying writer.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
