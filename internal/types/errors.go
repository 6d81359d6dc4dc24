package types

import (
	"errors"
	"fmt"
)

// ErrorCode is a namespaced error code for pipeline errors.
type ErrorCode string

// Row-level data errors. These are permanent: the row is wrong, not the
// store, so they are counted and logged but never retried.
const (
	MALFORMED_ROW        ErrorCode = "MALFORMED_ROW"
	UNRESOLVED_REFERENCE ErrorCode = "UNRESOLVED_REFERENCE"
)

// Store errors.
const (
	STORE_UNAVAILABLE ErrorCode = "STORE_UNAVAILABLE"
	STORE_INTEGRITY   ErrorCode = "STORE_INTEGRITY"
)

// Configuration and input errors.
const (
	CONFIG_LOAD_FAILED   ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_INVALID       ErrorCode = "CONFIG_INVALID"
	SOURCE_OPEN_FAILED   ErrorCode = "SOURCE_OPEN_FAILED"
	SOURCE_READ_FAILED   ErrorCode = "SOURCE_READ_FAILED"
	STAGE_ORDER_VIOLATED ErrorCode = "STAGE_ORDER_VIOLATED"
)

// PipelineError is a structured error with a code, a message, an
// optional cause, and a retryability hint used by the batch writers.
type PipelineError struct {
	Code      ErrorCode
	Message   string
	Cause     error
	Retryable bool
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewError creates a non-retryable PipelineError.
func NewError(code ErrorCode, format string, args ...any) *PipelineError {
	return &PipelineError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError wraps a cause with a code. Retryability defaults to false;
// use Transient for store-unavailability wrapping.
func WrapError(code ErrorCode, cause error, format string, args ...any) *PipelineError {
	return &PipelineError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Transient wraps a cause as a retryable STORE_UNAVAILABLE error.
func Transient(cause error, format string, args ...any) *PipelineError {
	return &PipelineError{
		Code:      STORE_UNAVAILABLE,
		Message:   fmt.Sprintf(format, args...),
		Cause:     cause,
		Retryable: true,
	}
}

// CodeOf extracts the ErrorCode from err, or "" when err is not a
// PipelineError.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsRetryable reports whether err carries a retryable hint.
func IsRetryable(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}
