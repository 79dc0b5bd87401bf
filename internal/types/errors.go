package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Input errors
	ErrInvalidConfig  ErrorCode = "INVALID_CONFIG"
	ErrInvalidCommand ErrorCode = "INVALID_COMMAND"

	// Session state errors
	ErrNothingToUndo   ErrorCode = "NOTHING_TO_UNDO"
	ErrInactiveSession ErrorCode = "INACTIVE_SESSION"

	// System errors
	ErrStorageError  ErrorCode = "STORAGE_ERROR"
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
)

// Rejected reports whether the code describes a request the tracker refused,
// as opposed to a failure of the tracker itself
func (c ErrorCode) Rejected() bool {
	switch c {
	case ErrInvalidConfig, ErrInvalidCommand, ErrNothingToUndo, ErrInactiveSession:
		return true
	}
	return false
}

// TrackerError represents a session tracking error
type TrackerError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *TrackerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *TrackerError) Unwrap() error {
	return e.Err
}

// NewTrackerError creates a new TrackerError
func NewTrackerError(code ErrorCode, message string) *TrackerError {
	return &TrackerError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a TrackerError
func WrapError(code ErrorCode, message string, err error) *TrackerError {
	return &TrackerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// InvalidConfig is shorthand for the error returned when a caller supplies a
// non-positive amount or an out-of-range multiplier.
func InvalidConfig(format string, args ...interface{}) *TrackerError {
	return NewTrackerError(ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// IsTrackerError checks if an error is a TrackerError and has a specific code
func IsTrackerError(err error, code ErrorCode) bool {
	var trackerErr *TrackerError
	if err == nil {
		return false
	}
	if ok := As(err, &trackerErr); !ok {
		return false
	}
	return trackerErr.Code == code
}

// As finds the first TrackerError in err's chain
func As(err error, target **TrackerError) bool {
	if target == nil || err == nil {
		return false
	}
	return errors.As(err, target)
}
