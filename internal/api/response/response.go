package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/newthinker/pricedash/internal/core"
)

// Meta contains response metadata.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

// SuccessResponse is the standard success response format.
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// JSON writes a success response with data. Data that cannot be encoded is
// reported as an internal error instead.
func JSON(w http.ResponseWriter, status int, data any) {
	resp := SuccessResponse{
		Data: data,
		Meta: Meta{Timestamp: time.Now().UTC()},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(resp); err != nil {
		Error(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// Error writes an error response.
func Error(w http.ResponseWriter, status int, err error) {
	detail := ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		detail.Code = coreErr.Code
		detail.Message = coreErr.Message
		if coreErr.Cause != nil {
			detail.Cause = coreErr.Cause.Error()
		}
	}

	resp := ErrorResponse{Error: detail}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Fail writes err with the HTTP status matching its code.
func Fail(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), err)
}

// StatusFor maps an error code to an HTTP status. Unknown errors are 500.
func StatusFor(err error) int {
	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		return http.StatusInternalServerError
	}

	switch coreErr.Code {
	case core.ErrNoSnapshot.Code, core.ErrUnknownChart.Code, core.ErrRunNotFound.Code, core.ErrNoData.Code:
		return http.StatusNotFound
	case core.ErrInvalidRequest.Code, core.ErrInvalidDataset.Code, core.ErrConfigInvalid.Code, core.ErrConfigMissing.Code:
		return http.StatusBadRequest
	case core.ErrUnauthorized.Code:
		return http.StatusUnauthorized
	case core.ErrTrainingConflict.Code:
		return http.StatusConflict
	case core.ErrBackendFailed.Code:
		return http.StatusBadGateway
	case core.ErrBackendTimeout.Code:
		return http.StatusGatewayTimeout
	case core.ErrTooManyClients.Code:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
