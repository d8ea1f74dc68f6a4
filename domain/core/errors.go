package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrEmptySample       = errors.New("empty sample")
	ErrColumnNotFound    = errors.New("column not found in layout")
	ErrInsufficientData  = errors.New("insufficient data for analysis")

	// Estimation errors
	ErrSingularMatrix    = errors.New("singular design matrix")
	ErrNoValidIterations = errors.New("no valid resampling iterations")
	ErrUndefinedShare    = errors.New("percent mediated undefined for zero total effect")

	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
)

// Error constructors with context
func NewDimensionError(what string, want, got int) error {
	return fmt.Errorf("%w: %s has %d rows, want %d", ErrDimensionMismatch, what, got, want)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewColumnError(role string) error {
	return fmt.Errorf("%w: no column with role %s", ErrColumnNotFound, role)
}

func NewInsufficientDataError(rows, cols int) error {
	return fmt.Errorf("%w: %d observations for %d design columns", ErrInsufficientData, rows, cols)
}
