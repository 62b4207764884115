package dashboard

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderMissingDatasource(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATASOURCE_UID", "")
	err := Render(t.TempDir())
	if !errors.Is(err, ErrNoDatasource) {
		t.Fatalf("expected ErrNoDatasource, got %v", err)
	}
}

func TestRenderFromEnv(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATASOURCE_UID", "uid1")
	t.Setenv("IMPACT_TABLE", "impacts_test")
	t.Setenv("DEFLECTION_TABLE", "")

	dir := t.TempDir()
	if err := Render(dir); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "grafana-dashboard.json"))
	if err != nil {
		t.Fatalf("read dashboard: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("rendered dashboard is not valid JSON: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "uid1") {
		t.Fatalf("greptime uid not rendered")
	}
	if !strings.Contains(s, "FROM impacts_test") || !strings.Contains(s, "FROM deflection_estimates") {
		t.Fatalf("table names not rendered")
	}
}

func TestRenderWithParamsOverridesEnv(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATASOURCE_UID", "from-env")
	dir := t.TempDir()
	p := Params{DatasourceUID: "explicit", ImpactTable: "imp", DeflectionTable: "defl"}
	if err := RenderWith(dir, p); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "grafana-dashboard.json"))
	if err != nil {
		t.Fatalf("read dashboard: %v", err)
	}
	s := string(b)
	if strings.Contains(s, "from-env") || !strings.Contains(s, "explicit") {
		t.Fatalf("explicit datasource not used")
	}
	if !strings.Contains(s, "FROM imp ") || !strings.Contains(s, "FROM defl ") {
		t.Fatalf("explicit table names not rendered")
	}
}

func TestRenderOneRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json.tmpl")
	if err := os.WriteFile(path, []byte(`{"uid": "{{ .DatasourceUID }}"`), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if _, err := renderOne(path, Params{DatasourceUID: "x"}); err == nil {
		t.Fatalf("expected invalid JSON error")
	}
}
