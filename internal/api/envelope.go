package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"aegis-net/internal/alerts"
	"aegis-net/internal/neo"
	"aegis-net/internal/orbit"
	"aegis-net/internal/physics"
	"aegis-net/internal/resources"
)

const maxBodyBytes = 1 << 20

var (
	errBadRequest  = errors.New("bad request")
	errNotFound    = errors.New("not found")
	errUnavailable = errors.New("unavailable")
)

// envelope is the response shape shared by every JSON endpoint.
type envelope struct {
	Success     bool               `json:"success"`
	Data        any                `json:"data,omitempty"`
	Source      string             `json:"source,omitempty"`
	Count       *int               `json:"count,omitempty"`
	Message     string             `json:"message,omitempty"`
	Error       string             `json:"error,omitempty"`
	MissionInfo *orbit.MissionInfo `json:"mission_info,omitempty"`
	DataSources []string           `json:"data_sources,omitempty"`
}

// writeJSON encodes before writing the status so an unencodable payload
// becomes a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, code int, v envelope) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		code = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(envelope{Error: "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

func ok(w http.ResponseWriter, source string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Source: source})
}

func okList[T any](w http.ResponseWriter, source string, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items, Source: source, Count: &n})
}

func okMessage(w http.ResponseWriter, source, msg string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Source: source, Message: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, physics.ErrInvalidParameter),
		errors.Is(err, resources.ErrMissingField),
		errors.Is(err, resources.ErrInvalid),
		errors.Is(err, alerts.ErrInvalidAlert),
		errors.Is(err, orbit.ErrInvalidTLE),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, physics.ErrDomain):
		return http.StatusUnprocessableEntity
	case errors.Is(err, neo.ErrNotFound),
		errors.Is(err, resources.ErrNotFound),
		errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fail(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), envelope{Success: false, Error: err.Error()})
}

// decode reads a JSON body, rejecting unknown trailing data.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errBadRequestf("request body is required")
		}
		return errBadRequestf("invalid request body: %v", err)
	}
	return nil
}

func errNotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errNotFound, fmt.Sprintf(format, args...))
}

func errBadRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}
