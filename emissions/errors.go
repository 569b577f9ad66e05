/*
errors.go - Centralized error types for the accounting model

PURPOSE:
  All error types in one place. Presentation layers map these onto
  user-visible messages and HTTP status codes.

ERROR CATEGORIES:
  1. Validation errors - Submitted entry rejected before computation
  2. Persistence errors - Store unreadable or unwritable

USAGE:
    if errors.Is(err, emissions.ErrInvalidRefrigerant) {
        var re *emissions.InvalidRefrigerantError
        errors.As(err, &re) // re.Refrigerant names the bad value
    }

SEE ALSO:
  - compute.go: Returns validation errors
  - ledger.go: Wraps store failures with ErrPersistence
*/
package emissions

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRefrigerant is returned when a refrigerant is not a key of the
	// reference table.
	ErrInvalidRefrigerant = errors.New("invalid refrigerant")

	// ErrInvalidWeight is returned when a recovered weight is negative.
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrPersistence is returned when the store cannot be read or written.
	// The entry was not saved and is not retried.
	ErrPersistence = errors.New("persistence error")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRefrigerantError names the rejected refrigerant.
type InvalidRefrigerantError struct {
	Refrigerant Refrigerant
}

func (e *InvalidRefrigerantError) Error() string {
	return fmt.Sprintf("unknown refrigerant %q", string(e.Refrigerant))
}

func (e *InvalidRefrigerantError) Unwrap() error { return ErrInvalidRefrigerant }

// InvalidWeightError carries the rejected weight.
type InvalidWeightError struct {
	WeightKg decimal.Decimal
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("weight must be non-negative, got %s kg", e.WeightKg.String())
}

func (e *InvalidWeightError) Unwrap() error { return ErrInvalidWeight }

// PersistenceError records which store operation failed.
type PersistenceError struct {
	Op  string // "load" or "append"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

// Is lets errors.Is match both ErrPersistence and the underlying cause.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError wraps err unless it already is a persistence error.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid submitted input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRefrigerant) ||
		errors.Is(err, ErrInvalidWeight)
}

// IsPersistence returns true if the store failed.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// RejectReason returns a short machine-readable code for err.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRefrigerant):
		return "invalid_refrigerant"
	case errors.Is(err, ErrInvalidWeight):
		return "invalid_weight"
	case errors.Is(err, ErrPersistence):
		return "persistence_error"
	default:
		return "internal_error"
	}
}
