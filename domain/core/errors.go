package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Schema resolution errors. Both classifier adoption and the fallback
	// heuristic funnel into these when no usable table structure exists.
	ErrSchema           = errors.New("schema resolution failed")
	ErrNoSubjectColumns = fmt.Errorf("%w: no subject columns found", ErrSchema)
	ErrNoNameColumn     = fmt.Errorf("%w: no name column found", ErrSchema)

	// Report errors
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 100")

	// Input errors
	ErrEmptyGrid = fmt.Errorf("%w: grid contains no rows", ErrSchema)
)

// NewThresholdError builds an ErrInvalidThreshold carrying the offending value.
func NewThresholdError(threshold float64) error {
	return fmt.Errorf("%w: got %.2f", ErrInvalidThreshold, threshold)
}

// Error checking helpers
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

func IsThresholdError(err error) bool {
	return errors.Is(err, ErrInvalidThreshold)
}
