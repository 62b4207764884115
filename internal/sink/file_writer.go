package sink

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"aegis-net/internal/results"
)

// FileWriter writes impact and deflection rows to separate JSONL files.
type FileWriter struct {
	mu      sync.Mutex
	impFile *os.File
	defFile *os.File
	impEnc  *json.Encoder
	defEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. Either path may be empty to skip that log.
func NewFileWriter(impactPath, deflectionPath string) (*FileWriter, error) {
	fw := &FileWriter{}
	if impactPath != "" {
		f, err := os.Create(impactPath)
		if err != nil {
			return nil, err
		}
		fw.impFile, fw.impEnc = f, json.NewEncoder(f)
	}
	if deflectionPath != "" {
		f, err := os.Create(deflectionPath)
		if err != nil {
			if fw.impFile != nil {
				fw.impFile.Close()
			}
			return nil, err
		}
		fw.defFile, fw.defEnc = f, json.NewEncoder(f)
	}
	return fw, nil
}

// WriteImpact logs a single impact row, if enabled.
func (f *FileWriter) WriteImpact(r results.ImpactRow) error {
	if f.impEnc == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.impEnc.Encode(r)
}

// WriteDeflection logs a single deflection row, if enabled.
func (f *FileWriter) WriteDeflection(r results.DeflectionRow) error {
	if f.defEnc == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.defEnc.Encode(r)
}

// Close closes the underlying files.
func (f *FileWriter) Close() error {
	var errs []error
	if f.impFile != nil {
		errs = append(errs, f.impFile.Close())
	}
	if f.defFile != nil {
		errs = append(errs, f.defFile.Close())
	}
	return errors.Join(errs...)
}
