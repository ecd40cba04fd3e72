// Package api defines the uniform response envelope every operation
// returns and the helpers that write it. It decouples the wire shape from
// the internal domain models.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	appErrors "karmdeep-backend/pkg/errors"
)

// Response is the envelope wrapping every success and error body.
type Response struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorBody  `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// ErrorBody carries a stable machine-matchable code and a human-readable
// message. Internal detail is logged server-side, never surfaced here.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metadata is attached to every response.
type Metadata struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId"`
}

// PaginatedResponse is the body shape for list operations. Total is the
// count of the returned page, not a global count.
type PaginatedResponse struct {
	Items     interface{} `json:"items"`
	Total     int         `json:"total"`
	NextToken string      `json:"nextToken,omitempty"`
}

// Success writes a success envelope with the given status code.
func Success(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	write(w, statusCode, Response{
		Success:  true,
		Data:     data,
		Metadata: metadata(r),
	})
}

// Error writes an error envelope.
func Error(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	write(w, statusCode, Response{
		Success:  false,
		Error:    &ErrorBody{Code: code, Message: message},
		Metadata: metadata(r),
	})
}

// HandleError maps an application error onto the envelope and status code.
// Unclassified errors are reported as internal with a generic message.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := err.(*appErrors.AppError)
	if !ok {
		Error(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	switch appErr.Type {
	case appErrors.ErrorTypeValidation:
		Error(w, r, http.StatusBadRequest, appErr.Code(), appErr.Message)
	case appErrors.ErrorTypeUnauthenticated:
		Error(w, r, http.StatusUnauthorized, appErr.Code(), appErr.Message)
	case appErrors.ErrorTypeForbidden:
		Error(w, r, http.StatusForbidden, appErr.Code(), appErr.Message)
	case appErrors.ErrorTypeNotFound:
		Error(w, r, http.StatusNotFound, appErr.Code(), appErr.Message)
	default:
		Error(w, r, http.StatusInternalServerError, appErr.Code(), "An internal error occurred")
	}
}

func metadata(r *http.Request) Metadata {
	return Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: middleware.GetReqID(r.Context()),
	}
}

func write(w http.ResponseWriter, statusCode int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
