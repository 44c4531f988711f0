// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Data errors
	ErrNoData         = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrNoSnapshot     = &Error{Code: "NO_SNAPSHOT", Message: "no dashboard snapshot computed yet"}
	ErrUnknownChart   = &Error{Code: "UNKNOWN_CHART", Message: "unknown chart"}
	ErrInvalidDataset = &Error{Code: "INVALID_DATASET", Message: "dataset could not be decoded"}

	// Request errors
	ErrInvalidRequest = &Error{Code: "INVALID_REQUEST", Message: "invalid request body"}

	// Backend errors
	ErrBackendFailed    = &Error{Code: "BACKEND_FAILED", Message: "pricing backend request failed"}
	ErrBackendTimeout   = &Error{Code: "BACKEND_TIMEOUT", Message: "pricing backend timeout"}
	ErrTrainingConflict = &Error{Code: "TRAINING_CONFLICT", Message: "training already in progress"}
	ErrRunNotFound      = &Error{Code: "RUN_NOT_FOUND", Message: "training run not found"}

	// Archive errors
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "snapshot archive failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Stream errors
	ErrTooManyClients = &Error{Code: "TOO_MANY_CLIENTS", Message: "stream client limit reached"}

	// Auth errors
	ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "missing or invalid API key"}
)
