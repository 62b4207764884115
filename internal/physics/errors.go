package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is matched by every *InvalidParameterError.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDomain is matched by every *DomainError.
	ErrDomain = errors.New("domain error")
)

// InvalidParameterError reports an input rejected before any arithmetic runs.
type InvalidParameterError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }

// DomainError reports an intermediate value outside the range the
// logarithmic and power steps are defined for.
type DomainError struct {
	Quantity string
	Value    float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s out of domain: %v", e.Quantity, e.Value)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

func invalid(field string, value any, reason string) error {
	return &InvalidParameterError{Field: field, Value: value, Reason: reason}
}
