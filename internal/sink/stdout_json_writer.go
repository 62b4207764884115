package sink

import (
	"encoding/json"
	"io"
	"os"

	"aegis-net/internal/results"
)

// JSONStdoutWriter prints rows as JSON lines.
type JSONStdoutWriter struct {
	enc *json.Encoder
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return NewJSONWriter(os.Stdout)
}

// NewJSONWriter writes JSON lines to out.
func NewJSONWriter(out io.Writer) *JSONStdoutWriter {
	return &JSONStdoutWriter{enc: json.NewEncoder(out)}
}

func (w *JSONStdoutWriter) WriteImpact(row results.ImpactRow) error {
	return w.enc.Encode(row)
}

func (w *JSONStdoutWriter) WriteDeflection(row results.DeflectionRow) error {
	return w.enc.Encode(row)
}
