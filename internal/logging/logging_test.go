package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn", "json")
	l.Info("hidden")
	l.Warn("shown", "k", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "shown" || rec["k"] != float64(1) {
		t.Fatalf("record = %v", rec)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != slog.LevelDebug || ParseLevel("bogus") != slog.LevelInfo || ParseLevel("warning") != slog.LevelWarn {
		t.Fatalf("unexpected level mapping")
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := NewWithWriter(&bytes.Buffer{}, "info", "text")
	if FromContext(NewContext(context.Background(), l)) != l {
		t.Fatalf("logger not recovered from context")
	}
	if FromContext(context.Background()) != slog.Default() {
		t.Fatalf("expected default logger fallback")
	}
}
