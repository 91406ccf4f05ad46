package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	// ErrNotFound is returned on catalog or inventory lookup misses.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuantity is returned when an operation would drive stock
	// negative (waste exceeding current stock, negative counts).
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrNoHistoricalData is returned when a past date has no snapshot.
	// It must propagate to the caller as an explicit state; substituting
	// live values for a past date silently corrupts historical reports.
	ErrNoHistoricalData = errors.New("no historical data")

	// ErrSnapshotExists rejects a re-capture for an already-snapshotted
	// date: snapshots are immutable and never updated in place.
	ErrSnapshotExists = errors.New("snapshot already exists")

	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
