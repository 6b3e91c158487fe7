// ambient_errors.go - Error taxonomy for sessions and exports

package main

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration accompanies a clamped or defaulted session
	// parameter. It is a warning: the session still starts.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrPrematureExport is returned when no session seed exists yet.
	ErrPrematureExport = errors.New("export requested before any session was started")

	// ErrExportInFlight rejects an export while another is rendering.
	ErrExportInFlight = errors.New("an export is already rendering")
)

// InvariantError reports engine state that escaped its bounds. It is fatal
// to the session that produced it.
type InvariantError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("engine invariant violated: %s=%v outside [%v,%v]", e.Field, e.Value, e.Min, e.Max)
}

func checkRange(field string, value, min, max float64) error {
	if !(value >= min && value <= max) {
		return &InvariantError{Field: field, Value: value, Min: min, Max: max}
	}
	return nil
}
