// internal/core/errors_test.go
package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message"}
	if err.Error() != "[TEST_ERROR] test message" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_ErrorWithCause(t *testing.T) {
	err := WrapError(ErrBackendFailed, errors.New("connection refused"))
	want := "[BACKEND_FAILED] pricing backend request failed: connection refused"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Code: "WRAP", Message: "wrapped", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should return cause")
	}
}

func TestError_Is(t *testing.T) {
	if !errors.Is(ErrNoSnapshot, ErrNoSnapshot) {
		t.Error("same error should match")
	}
	if errors.Is(ErrNoSnapshot, ErrUnknownChart) {
		t.Error("different codes should not match")
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("original")
	wrapped := WrapError(ErrBackendFailed, cause)
	if wrapped.Cause != cause {
		t.Error("cause not set")
	}
	if wrapped.Code != ErrBackendFailed.Code {
		t.Error("code not preserved")
	}
	if !errors.Is(wrapped, ErrBackendFailed) {
		t.Error("wrapped error should match its base by code")
	}
}

func TestError_JSONOmitsCause(t *testing.T) {
	err := WrapError(ErrRunNotFound, errors.New("id abc"))
	body, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("marshal: %v", marshalErr)
	}
	want := `{"code":"RUN_NOT_FOUND","message":"training run not found"}`
	if string(body) != want {
		t.Errorf("got %s, want %s", body, want)
	}
}

func TestError_IsThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("refresh: %w", WrapError(ErrBackendTimeout, errors.New("deadline")))
	if !errors.Is(err, ErrBackendTimeout) {
		t.Error("code match should survive fmt wrapping")
	}
	var coreErr *Error
	if !errors.As(err, &coreErr) || coreErr.Code != "BACKEND_TIMEOUT" {
		t.Errorf("errors.As should find the core error, got %v", coreErr)
	}
}
