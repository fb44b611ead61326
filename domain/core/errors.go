package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors
	ErrSeriesLengthMismatch = errors.New("factor series length does not match target series length")
	ErrMissingField         = errors.New("missing required field")
	ErrUnsupportedMethod    = errors.New("unsupported attribution method")

	// Statistical degeneracies - recovered locally, never fatal
	ErrInsufficientData = errors.New("insufficient data for a stable fit")
	ErrSingularFit      = errors.New("contribution model fit is singular")

	// Graph errors
	ErrNoPathToTarget = errors.New("no path from root to target")
)

// Error constructors with context

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewLengthMismatchError(factor string, factorLen, targetLen int) error {
	return fmt.Errorf("%w: factor %q has %d points, target has %d",
		ErrSeriesLengthMismatch, factor, factorLen, targetLen)
}

func NewUnsupportedMethodError(method string, supported []string) error {
	return fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedMethod, method, supported)
}

// Error checking helpers

func IsValidationError(err error) bool {
	return errors.Is(err, ErrSeriesLengthMismatch) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrUnsupportedMethod)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
