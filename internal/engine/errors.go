package engine

import (
	"errors"
	"fmt"
)

// QueryError represents a failure detected during query evaluation.
//
// Construction-time failures (unknown fields, aggregate type mismatches)
// are query.ValidationError values and pass through unchanged; QueryError
// covers what can only be known once rows exist.
type QueryError struct {
	// Code identifies the error category.
	Code QueryErrorCode

	// Message is a human-readable description.
	Message string
}

// QueryErrorCode categorizes evaluation errors.
type QueryErrorCode string

const (
	// ErrCodeNonUniqueResult indicates a single-result fetch whose result
	// set held more than one row. An empty result set is not an error.
	ErrCodeNonUniqueResult QueryErrorCode = "NON_UNIQUE_RESULT"

	// ErrCodeUnknownSource indicates a spec referencing a table that was
	// never registered with the engine.
	ErrCodeUnknownSource QueryErrorCode = "UNKNOWN_SOURCE"

	// ErrCodeNotFound indicates a lookup for an entity id that does not
	// exist in its table.
	ErrCodeNotFound QueryErrorCode = "NOT_FOUND"
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNonUniqueResult returns true if the error is a non-unique single-result
// fetch. Uses errors.As to handle wrapped errors.
func IsNonUniqueResult(err error) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code == ErrCodeNonUniqueResult
	}
	return false
}

// NewNonUniqueResultError creates a QueryError for a single-result fetch
// that matched several rows.
func NewNonUniqueResultError(count int) *QueryError {
	return &QueryError{
		Code:    ErrCodeNonUniqueResult,
		Message: fmt.Sprintf("single-result fetch matched %d rows", count),
	}
}

// IsNotFound returns true if the error is a missing-entity lookup. Uses
// errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code == ErrCodeNotFound
	}
	return false
}

// NewNotFoundError creates a QueryError for an id absent from its table.
func NewNotFoundError(table string, id int64) *QueryError {
	return &QueryError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no row with id %d in table %q", id, table),
	}
}

// NewUnknownSourceError creates a QueryError for an unregistered table.
func NewUnknownSourceError(table string) *QueryError {
	return &QueryError{
		Code:    ErrCodeUnknownSource,
		Message: fmt.Sprintf("no source registered for table %q", table),
	}
}
