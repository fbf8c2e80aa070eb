package query

import (
	"errors"
	"fmt"
)

// ValidationError represents a query rejected before evaluation.
//
// Validation errors include:
//   - Invalid operation: unknown table or alias, field absent from the
//     referenced side, malformed paging or grouping
//   - Type mismatch: aggregate or predicate argument of an unusable kind
//
// All validation failures surface at query-construction time, before any
// row is scanned.
type ValidationError struct {
	// Code identifies the error category.
	Code ValidationErrorCode

	// Message is a human-readable description.
	Message string

	// Field identifies the offending field reference, when applicable.
	Field string
}

// ValidationErrorCode categorizes validation errors.
type ValidationErrorCode string

const (
	// ErrCodeInvalidOperation indicates a structurally malformed query:
	// unknown sources, unresolvable field references, negative paging.
	ErrCodeInvalidOperation ValidationErrorCode = "INVALID_OPERATION"

	// ErrCodeTypeMismatch indicates an argument whose kind the operation
	// cannot digest (e.g. averaging a string field).
	ErrCodeTypeMismatch ValidationErrorCode = "TYPE_MISMATCH"
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidOperation returns true if the error is a structural query error.
// Uses errors.As to handle wrapped errors.
func IsInvalidOperation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == ErrCodeInvalidOperation
	}
	return false
}

// IsTypeMismatch returns true if the error is a type mismatch.
// Uses errors.As to handle wrapped errors.
func IsTypeMismatch(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == ErrCodeTypeMismatch
	}
	return false
}

// NewInvalidOperationError creates a ValidationError for malformed queries.
func NewInvalidOperationError(message string) *ValidationError {
	return &ValidationError{Code: ErrCodeInvalidOperation, Message: message}
}

// NewTypeMismatchError creates a ValidationError for unusable argument kinds.
func NewTypeMismatchError(message, field string) *ValidationError {
	return &ValidationError{Code: ErrCodeTypeMismatch, Message: message, Field: field}
}
