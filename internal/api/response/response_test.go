package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/newthinker/pricedash/internal/core"
)

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"hello": "world"}

	JSON(w, http.StatusOK, data)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected application/json content type")
	}

	var resp SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data == nil {
		t.Error("expected data in response")
	}
	if resp.Meta.Timestamp.IsZero() {
		t.Error("expected timestamp in meta")
	}
}

func TestJSON_UnencodableData(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]float64{"value": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, w.Body.String(), `"data"`)
}

func TestError_WithCoreError(t *testing.T) {
	w := httptest.NewRecorder()
	err := core.ErrInvalidDataset

	Error(w, http.StatusBadRequest, err)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "INVALID_DATASET" {
		t.Errorf("expected INVALID_DATASET, got %s", resp.Error.Code)
	}
}

func TestError_WithCause(t *testing.T) {
	w := httptest.NewRecorder()
	err := core.WrapError(core.ErrBackendFailed, errors.New("connection refused"))

	Error(w, http.StatusBadGateway, err)

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "BACKEND_FAILED" {
		t.Errorf("expected BACKEND_FAILED, got %s", resp.Error.Code)
	}
	if resp.Error.Cause != "connection refused" {
		t.Errorf("expected cause, got %q", resp.Error.Cause)
	}
}

func TestError_WithStandardError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusInternalServerError, errors.New("boom"))

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %s", resp.Error.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrNoSnapshot, http.StatusNotFound},
		{core.WrapError(core.ErrUnknownChart, nil), http.StatusNotFound},
		{core.ErrRunNotFound, http.StatusNotFound},
		{core.ErrInvalidDataset, http.StatusBadRequest},
		{core.ErrInvalidRequest, http.StatusBadRequest},
		{core.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("start: %w", core.ErrTrainingConflict), http.StatusConflict},
		{core.ErrBackendFailed, http.StatusBadGateway},
		{core.ErrBackendTimeout, http.StatusGatewayTimeout},
		{core.ErrTooManyClients, http.StatusServiceUnavailable},
		{core.ErrArchiveFailed, http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), "%v", tt.err)
	}
}

func TestFail(t *testing.T) {
	w := httptest.NewRecorder()
	Fail(w, core.ErrNoSnapshot)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
