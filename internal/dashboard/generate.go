// Package dashboard renders the Grafana dashboards for the result tables.
package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"aegis-net/internal/results"
)

var templateFiles = []string{
	"grafana-dashboard.json.tmpl",
}

// ErrNoDatasource is returned when no Grafana datasource uid is known.
var ErrNoDatasource = errors.New("GREPTIMEDB_DATASOURCE_UID not set")

// Params fill the dashboard templates. Empty fields fall back to the
// environment and the results table defaults.
type Params struct {
	DatasourceUID   string
	ImpactTable     string
	DeflectionTable string
}

func (p Params) withDefaults() (Params, error) {
	if p.DatasourceUID == "" {
		p.DatasourceUID = os.Getenv("GREPTIMEDB_DATASOURCE_UID")
	}
	if p.DatasourceUID == "" {
		return p, ErrNoDatasource
	}
	if p.ImpactTable == "" {
		p.ImpactTable = results.ImpactTable()
	}
	if p.DeflectionTable == "" {
		p.DeflectionTable = results.DeflectionTable()
	}
	return p, nil
}

func templateDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(filepath.Dir(file)))
}

// Render writes every dashboard to outDir using environment defaults.
func Render(outDir string) error {
	return RenderWith(outDir, Params{})
}

// RenderWith renders the dashboards with p. Output that is not valid JSON is
// rejected before anything is written.
func RenderWith(outDir string, p Params) error {
	p, err := p.withDefaults()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, name := range templateFiles {
		b, err := renderOne(filepath.Join(templateDir(), name), p)
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		out := filepath.Join(outDir, strings.TrimSuffix(name, ".tmpl"))
		if err := os.WriteFile(out, b, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func renderOne(path string, p Params) ([]byte, error) {
	t, err := template.New(filepath.Base(path)).Option("missingkey=error").ParseFiles(path)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, p); err != nil {
		return nil, err
	}
	if !json.Valid(buf.Bytes()) {
		return nil, errors.New("rendered dashboard is not valid JSON")
	}
	return buf.Bytes(), nil
}
