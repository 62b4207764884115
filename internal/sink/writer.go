// Package sink delivers result rows to stdout, files, GreptimeDB and the TUI.
package sink

import "aegis-net/internal/results"

// ImpactWriter accepts impact estimates.
type ImpactWriter interface {
	WriteImpact(results.ImpactRow) error
}

// DeflectionWriter accepts deflection estimates.
type DeflectionWriter interface {
	WriteDeflection(results.DeflectionRow) error
}

// Writer accepts both row kinds.
type Writer interface {
	ImpactWriter
	DeflectionWriter
}

type impactBatchWriter interface {
	WriteImpacts([]results.ImpactRow) error
}

type deflectionBatchWriter interface {
	WriteDeflections([]results.DeflectionRow) error
}

// WriteImpacts uses the batch path when w supports it.
func WriteImpacts(w ImpactWriter, rows []results.ImpactRow) error {
	if bw, ok := w.(impactBatchWriter); ok {
		return bw.WriteImpacts(rows)
	}
	for _, r := range rows {
		if err := w.WriteImpact(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteDeflections uses the batch path when w supports it.
func WriteDeflections(w DeflectionWriter, rows []results.DeflectionRow) error {
	if bw, ok := w.(deflectionBatchWriter); ok {
		return bw.WriteDeflections(rows)
	}
	for _, r := range rows {
		if err := w.WriteDeflection(r); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops every row.
type Discard struct{}

func (Discard) WriteImpact(results.ImpactRow) error         { return nil }
func (Discard) WriteDeflection(results.DeflectionRow) error { return nil }
