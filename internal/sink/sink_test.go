package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"aegis-net/internal/observability"
	"aegis-net/internal/results"
)

type collectWriter struct {
	impacts     []results.ImpactRow
	deflections []results.DeflectionRow
	batches     int
	err         error
}

func (c *collectWriter) WriteImpact(r results.ImpactRow) error {
	if c.err != nil {
		return c.err
	}
	c.impacts = append(c.impacts, r)
	return nil
}

func (c *collectWriter) WriteDeflection(r results.DeflectionRow) error {
	if c.err != nil {
		return c.err
	}
	c.deflections = append(c.deflections, r)
	return nil
}

type batchCollectWriter struct{ collectWriter }

func (b *batchCollectWriter) WriteImpacts(rows []results.ImpactRow) error {
	b.batches++
	b.impacts = append(b.impacts, rows...)
	return nil
}

func sampleImpact(size float64, ts time.Time) results.ImpactRow {
	return results.ImpactRow{
		RunID:        "run-1",
		AsteroidSize: size,
		Velocity:     17,
		Angle:        45,
		Composition:  "stone",
		ImpactEnergy: 0.434,
		BlastRadius:  379.6,
		Risk:         "low",
		Timestamp:    ts,
	}
}

func sampleDeflection(success bool, ts time.Time) results.DeflectionRow {
	return results.DeflectionRow{
		RunID:            "run-1",
		Strategy:         "nuclear-deflection",
		AsteroidSize:     100,
		Velocity:         20,
		TimeToImpactDays: 365,
		Deflection:       8.1,
		Success:          success,
		CostMUSD:         1000,
		Risk:             "high",
		Timestamp:        ts,
	}
}

func TestWriteImpactsUsesBatch(t *testing.T) {
	rows := []results.ImpactRow{sampleImpact(10, time.Unix(0, 0)), sampleImpact(20, time.Unix(1, 0))}

	b := &batchCollectWriter{}
	if err := WriteImpacts(b, rows); err != nil {
		t.Fatalf("WriteImpacts: %v", err)
	}
	if b.batches != 1 || len(b.impacts) != 2 {
		t.Fatalf("batches=%d rows=%d, want 1 and 2", b.batches, len(b.impacts))
	}

	c := &collectWriter{}
	if err := WriteImpacts(c, rows); err != nil {
		t.Fatalf("WriteImpacts: %v", err)
	}
	if len(c.impacts) != 2 {
		t.Fatalf("rows = %d, want 2", len(c.impacts))
	}
}

func TestMultiWriterStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	a := &collectWriter{}
	bad := &collectWriter{err: boom}
	c := &collectWriter{}
	mw := NewMultiWriter(a, bad, c)

	if err := mw.WriteImpact(sampleImpact(10, time.Unix(0, 0))); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if len(a.impacts) != 1 || len(c.impacts) != 0 {
		t.Fatalf("fan-out a=%d c=%d, want 1 and 0", len(a.impacts), len(c.impacts))
	}

	ok := NewMultiWriter(a, c)
	if err := ok.WriteDeflections([]results.DeflectionRow{sampleDeflection(true, time.Unix(0, 0))}); err != nil {
		t.Fatalf("WriteDeflections: %v", err)
	}
	if len(a.deflections) != 1 || len(c.deflections) != 1 {
		t.Fatalf("deflections a=%d c=%d, want 1 each", len(a.deflections), len(c.deflections))
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	if err := w.WriteImpact(sampleImpact(20, time.Unix(0, 0).UTC())); err != nil {
		t.Fatalf("WriteImpact: %v", err)
	}
	if err := w.WriteDeflection(sampleDeflection(true, time.Unix(0, 0).UTC())); err != nil {
		t.Fatalf("WriteDeflection: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["asteroid_size_m"] != 20.0 || got["composition"] != "stone" {
		t.Fatalf("unexpected impact line: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"strategy":"nuclear-deflection"`) {
		t.Fatalf("unexpected deflection line: %s", lines[1])
	}
}

func TestColorWriterPrintsOverviewOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewColorWriter(&buf)
	ts := time.Unix(0, 0).UTC()
	_ = w.WriteImpact(sampleImpact(20, ts))
	_ = w.WriteDeflection(sampleDeflection(false, ts))
	_ = w.WriteDeflection(sampleDeflection(true, ts))

	out := buf.String()
	if n := strings.Count(out, "Mitigation Strategies:"); n != 1 {
		t.Fatalf("overview printed %d times, want 1", n)
	}
	for _, want := range []string{"kinetic-impactor", "IMPACT", "energy=0.434MT", "FAIL", "OK", colorGreen} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	impPath := filepath.Join(dir, "impacts.jsonl")
	defPath := filepath.Join(dir, "deflections.jsonl")
	fw, err := NewFileWriter(impPath, defPath)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	ts := time.Unix(0, 0).UTC()
	if err := fw.WriteImpact(sampleImpact(20, ts)); err != nil {
		t.Fatalf("WriteImpact: %v", err)
	}
	if err := fw.WriteDeflection(sampleDeflection(true, ts)); err != nil {
		t.Fatalf("WriteDeflection: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for _, p := range []string{impPath, defPath} {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if strings.Count(string(data), "\n") != 1 {
			t.Fatalf("%s: expected one line, got %q", p, data)
		}
	}
}

func TestFileWriterSkipsDisabledLog(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter("", filepath.Join(dir, "d.jsonl"))
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	defer fw.Close()
	if err := fw.WriteImpact(sampleImpact(1, time.Now())); err != nil {
		t.Fatalf("WriteImpact with no impact log: %v", err)
	}
}

func TestFileWriterBadPath(t *testing.T) {
	if _, err := NewFileWriter(filepath.Join(t.TempDir(), "missing", "x.jsonl"), ""); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestReplayLog(t *testing.T) {
	rows := []results.ImpactRow{
		sampleImpact(10, time.Unix(0, 0)),
		sampleImpact(20, time.Unix(2, 0)),
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	var slept []time.Duration
	orig := sleep
	sleep = func(d time.Duration) { slept = append(slept, d) }
	defer func() { sleep = orig }()

	cw := &collectWriter{}
	if err := ReplayLog(&buf, cw, 2); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if len(cw.impacts) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(cw.impacts))
	}
	for i, r := range rows {
		if cw.impacts[i].AsteroidSize != r.AsteroidSize {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, cw.impacts[i], r)
		}
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("slept = %v, want [1s]", slept)
	}
}

func TestReplayDeflectionsNoDelay(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	_ = enc.Encode(sampleDeflection(true, time.Unix(0, 0)))
	_ = enc.Encode(sampleDeflection(false, time.Unix(60, 0)))

	orig := sleep
	sleep = func(time.Duration) { t.Fatalf("unexpected sleep") }
	defer func() { sleep = orig }()

	cw := &collectWriter{}
	if err := ReplayDeflections(&buf, cw, 0); err != nil {
		t.Fatalf("ReplayDeflections: %v", err)
	}
	if len(cw.deflections) != 2 || cw.deflections[1].Success {
		t.Fatalf("unexpected rows: %+v", cw.deflections)
	}
}

func TestReplayLogMalformed(t *testing.T) {
	if err := ReplayLog(strings.NewReader("{not json"), &collectWriter{}, 0); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCountingWriter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	next := &collectWriter{}
	w := NewCountingWriter(next, m)
	ts := time.Unix(0, 0)
	_ = w.WriteImpact(sampleImpact(1, ts))
	_ = w.WriteImpacts([]results.ImpactRow{sampleImpact(2, ts), sampleImpact(3, ts)})
	_ = w.WriteDeflection(sampleDeflection(true, ts))

	if got := testutil.ToFloat64(m.RowsWritten.WithLabelValues(results.ImpactTable())); got != 3 {
		t.Fatalf("impact rows = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.RowsWritten.WithLabelValues(results.DeflectionTable())); got != 1 {
		t.Fatalf("deflection rows = %v, want 1", got)
	}
	if len(next.impacts) != 3 {
		t.Fatalf("delegated impacts = %d, want 3", len(next.impacts))
	}
}

func TestDiscard(t *testing.T) {
	var w Writer = Discard{}
	if err := w.WriteImpact(results.ImpactRow{}); err != nil {
		t.Fatalf("Discard: %v", err)
	}
}
