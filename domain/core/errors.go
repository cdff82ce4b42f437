package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Invalid-input errors: reported to the caller before any optimization runs.
	ErrNoCounts          = errors.New("no counts provided")
	ErrNegativeCount     = errors.New("counts must be non-negative integers")
	ErrDimensionMismatch = errors.New("design matrix dimensions do not match counts")
	ErrNegativeWeight    = errors.New("weights must be non-negative")
	ErrTruncatePositive  = errors.New("zero-truncated model requires all counts >= 1")
	ErrTruncateValue     = errors.New("zero-truncated model requires inflated value >= 1")
	ErrUnknownLink       = errors.New("unknown link function")
	ErrUnknownMethod     = errors.New("unknown optimizer method")

	// Optimizer failures propagate as fatal fit-call failures.
	ErrOptimizerFailed = errors.New("optimizer failed to converge")

	// Store errors
	ErrFitNotFound = errors.New("fit not found")
)

// NewValidationError wraps a sentinel with field context.
func NewValidationError(sentinel error, detail string) error {
	return fmt.Errorf("%w: %s", sentinel, detail)
}

// NewOptimizerError wraps an inner minimizer failure with the method name.
func NewOptimizerError(method string, err error) error {
	return fmt.Errorf("%w: method %q: %v", ErrOptimizerFailed, method, err)
}

// IsInvalidInput reports whether err is one of the fail-fast precondition errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrNoCounts) ||
		errors.Is(err, ErrNegativeCount) ||
		errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrNegativeWeight) ||
		errors.Is(err, ErrTruncatePositive) ||
		errors.Is(err, ErrTruncateValue) ||
		errors.Is(err, ErrUnknownLink) ||
		errors.Is(err, ErrUnknownMethod)
}

// IsOptimizerError reports whether err came from the inner minimizer.
func IsOptimizerError(err error) bool {
	return errors.Is(err, ErrOptimizerFailed)
}
