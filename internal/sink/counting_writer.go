package sink

import (
	"aegis-net/internal/observability"
	"aegis-net/internal/results"
)

// CountingWriter records written rows in the metrics collector before
// delegating to the wrapped writer.
type CountingWriter struct {
	next            Writer
	metrics         *observability.Collector
	impactTable     string
	deflectionTable string
}

func NewCountingWriter(next Writer, m *observability.Collector) *CountingWriter {
	return &CountingWriter{
		next:            next,
		metrics:         m,
		impactTable:     results.ImpactTable(),
		deflectionTable: results.DeflectionTable(),
	}
}

func (c *CountingWriter) WriteImpact(r results.ImpactRow) error {
	if err := c.next.WriteImpact(r); err != nil {
		return err
	}
	c.metrics.ObserveRows(c.impactTable, 1)
	return nil
}

func (c *CountingWriter) WriteImpacts(rows []results.ImpactRow) error {
	if err := WriteImpacts(c.next, rows); err != nil {
		return err
	}
	c.metrics.ObserveRows(c.impactTable, len(rows))
	return nil
}

func (c *CountingWriter) WriteDeflection(r results.DeflectionRow) error {
	if err := c.next.WriteDeflection(r); err != nil {
		return err
	}
	c.metrics.ObserveRows(c.deflectionTable, 1)
	return nil
}

func (c *CountingWriter) WriteDeflections(rows []results.DeflectionRow) error {
	if err := WriteDeflections(c.next, rows); err != nil {
		return err
	}
	c.metrics.ObserveRows(c.deflectionTable, len(rows))
	return nil
}
