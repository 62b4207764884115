package sink

import "aegis-net/internal/results"

// MultiWriter fans rows out to several writers, stopping at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...Writer) *MultiWriter {
	return &MultiWriter{writers: ws}
}

func (mw *MultiWriter) WriteImpact(row results.ImpactRow) error {
	for _, w := range mw.writers {
		if err := w.WriteImpact(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteImpacts sends rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteImpacts(rows []results.ImpactRow) error {
	for _, w := range mw.writers {
		if err := WriteImpacts(w, rows); err != nil {
			return err
		}
	}
	return nil
}

func (mw *MultiWriter) WriteDeflection(row results.DeflectionRow) error {
	for _, w := range mw.writers {
		if err := w.WriteDeflection(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteDeflections sends rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteDeflections(rows []results.DeflectionRow) error {
	for _, w := range mw.writers {
		if err := WriteDeflections(w, rows); err != nil {
			return err
		}
	}
	return nil
}
