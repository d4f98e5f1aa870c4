package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a corpus error code.
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrInvalidRecord       ErrorCode = "INVALID_RECORD"       // 422
	ErrCancelled           ErrorCode = "CANCELLED"            // 499
	ErrCardinalityMismatch ErrorCode = "CARDINALITY_MISMATCH" // 500
	ErrPersistenceFailure  ErrorCode = "PERSISTENCE_FAILURE"  // 500
	ErrInternal            ErrorCode = "INTERNAL"             // 500
	ErrFetchUnavailable    ErrorCode = "FETCH_UNAVAILABLE"    // 503
)

// CorpusError represents a structured error with code, status, and details.
type CorpusError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	cause error
}

// Error implements the error interface.
func (e *CorpusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *CorpusError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *CorpusError {
	return &CorpusError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing run or file.
func NewNotFound(identifier string) *CorpusError {
	return &CorpusError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewInvalidRecord creates a 422 error for a record that violates the generator's preconditions.
func NewInvalidRecord(id uint64, reason string) *CorpusError {
	return &CorpusError{
		Code:    ErrInvalidRecord,
		Status:  422,
		Message: fmt.Sprintf("record %d: %s", id, reason),
		Details: map[string]any{"id": id, "reason": reason},
	}
}

// NewCancelled creates a 499 error when an operation is cancelled by its context.
func NewCancelled(operation string) *CorpusError {
	return &CorpusError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NewCardinalityMismatch creates a 500 error when generated views disagree on row count.
func NewCardinalityMismatch(records, ids, descriptions int) *CorpusError {
	return &CorpusError{
		Code:    ErrCardinalityMismatch,
		Status:  500,
		Message: fmt.Sprintf("generated %d ids and %d descriptions for %d records", ids, descriptions, records),
		Details: map[string]any{"records": records, "ids": ids, "descriptions": descriptions},
	}
}

// NewPersistenceFailure creates a 500 error listing the views that could not be written.
func NewPersistenceFailure(failed []string) *CorpusError {
	return &CorpusError{
		Code:    ErrPersistenceFailure,
		Status:  500,
		Message: fmt.Sprintf("failed to write views: %v", failed),
		Details: map[string]any{"failed_views": failed},
	}
}

// NewFetchUnavailable creates a 503 error when the directory service yields no usable batch.
func NewFetchUnavailable(err error) *CorpusError {
	msg := "meeting directory returned no data"
	if err != nil {
		msg = fmt.Sprintf("meeting directory unavailable: %v", err)
	}
	return &CorpusError{
		Code:    ErrFetchUnavailable,
		Status:  503,
		Message: msg,
		cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *CorpusError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &CorpusError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if err (or anything it wraps) is a CorpusError with the given code.
func Is(err error, code ErrorCode) bool {
	var cErr *CorpusError
	if stderrors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}
