package observability

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel"

	"aegis-net/internal/config"
)

func TestMiddlewareRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	h := c.Middleware("/api/impact", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/impact", nil))

	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("/api/impact", "POST", "400")); got != 1 {
		t.Fatalf("aegis_http_requests_total = %v, want 1", got)
	}
	if n := histogramCount(t, reg, "aegis_http_request_duration_seconds"); n != 1 {
		t.Fatalf("duration sample count = %d, want 1", n)
	}
}

func TestObserveComputationAndRows(t *testing.T) {
	c, err := NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c.ObserveComputation("impact", nil)
	c.ObserveComputation("impact", errors.New("bad"))
	c.ObserveComputation("impact", nil)
	c.ObserveRows("impact_estimates", 3)
	c.ObserveRows("impact_estimates", 0)

	if got := testutil.ToFloat64(c.Computations.WithLabelValues("impact", "ok")); got != 2 {
		t.Fatalf("ok computations = %v", got)
	}
	if got := testutil.ToFloat64(c.Computations.WithLabelValues("impact", "error")); got != 1 {
		t.Fatalf("error computations = %v", got)
	}
	if got := testutil.ToFloat64(c.RowsWritten.WithLabelValues("impact_estimates")); got != 3 {
		t.Fatalf("rows = %v", got)
	}

	var nilCollector *Collector
	nilCollector.ObserveComputation("impact", nil)
}

func TestNewCollectorTwiceReusesRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	b, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	a.ObserveComputation("deflection", nil)
	if got := testutil.ToFloat64(b.Computations.WithLabelValues("deflection", "ok")); got != 1 {
		t.Fatalf("collectors not shared: %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c, _ := NewCollector(prometheus.NewRegistry())
	c.AlertSubscribers.Set(2)
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), "aegis_alert_subscribers 2") {
		t.Fatalf("metrics output missing gauge:\n%s", body)
	}
}

func TestInitTracingStdout(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := initTracing(context.Background(), config.TracingConfig{
		Enabled: true, ServiceName: "aegis-test", Exporter: "stdout", SampleRatio: 1,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)), &buf)
	if err != nil {
		t.Fatalf("initTracing: %v", err)
	}
	_, span := otel.Tracer("test").Start(context.Background(), "unit-span")
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !strings.Contains(buf.String(), "unit-span") {
		t.Fatalf("span not exported: %s", buf.String())
	}

	off, err := InitTracing(context.Background(), config.TracingConfig{}, nil)
	if err != nil || off(context.Background()) != nil {
		t.Fatalf("disabled tracing should be a no-op: %v", err)
	}
}

func TestInitTracingUnknownExporter(t *testing.T) {
	if _, err := InitTracing(context.Background(), config.TracingConfig{Enabled: true, Exporter: "zipkin"}, nil); err == nil {
		t.Fatalf("expected error for unknown exporter")
	}
}

func histogramCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var total uint64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += histogram(m).GetSampleCount()
		}
	}
	return total
}

func histogram(m *dto.Metric) *dto.Histogram { return m.GetHistogram() }
