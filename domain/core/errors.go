package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors - fatal, no partial report is produced
	ErrInvalidInput     = errors.New("invalid input sample")
	ErrSampleTooSmall   = fmt.Errorf("%w: fewer than 5 values", ErrInvalidInput)
	ErrNonFiniteValue   = fmt.Errorf("%w: non-finite value", ErrInvalidInput)
	ErrDegenerateSample = errors.New("degenerate sample: standard deviation is zero")

	// Per-criterion failures - local, the criterion is recorded as unavailable
	ErrCriterionUnavailable = errors.New("criterion unavailable")
	ErrNotApplicable        = fmt.Errorf("%w: not applicable for this sample size", ErrCriterionUnavailable)
	ErrUndefinedStatistic   = fmt.Errorf("%w: statistic undefined for this sample", ErrCriterionUnavailable)

	// Storage errors
	ErrReportNotFound = errors.New("report not found")
)

// Error constructors with context
func NewInvalidInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

func NewNonFiniteError(index int, value float64) error {
	return fmt.Errorf("%w at index %d: %v", ErrNonFiniteValue, index, value)
}

// Error checking helpers
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsDegenerateSample(err error) bool {
	return errors.Is(err, ErrDegenerateSample)
}

func IsCriterionUnavailable(err error) bool {
	return errors.Is(err, ErrCriterionUnavailable)
}
