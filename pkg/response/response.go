// Package response writes the JSON envelope shared by the authorization
// API and the route guards: {"data": ...} on success and
// {"error": {"code", "message"}} on failure.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail is the machine-readable error payload.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// HTTPError pairs a status code with a stable error code.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e HTTPError) Error() string { return e.Code }

// WithMessage returns a copy of e carrying msg.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// Is matches on status and code so messages do not affect errors.Is.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Status == e.Status && t.Code == e.Code
}

var (
	ErrBadRequest        = HTTPError{Status: http.StatusBadRequest, Code: "bad_request"}
	ErrInvalidPermission = HTTPError{Status: http.StatusBadRequest, Code: "invalid_permission"}
	ErrInvalidResource   = HTTPError{Status: http.StatusBadRequest, Code: "invalid_resource"}
	ErrUnauthorized      = HTTPError{Status: http.StatusUnauthorized, Code: "unauthorized"}
	ErrForbidden         = HTTPError{Status: http.StatusForbidden, Code: "forbidden"}
	ErrNotFound          = HTTPError{Status: http.StatusNotFound, Code: "not_found"}
	ErrInternal          = HTTPError{Status: http.StatusInternalServerError, Code: "internal_error"}
)

// JSON writes v as the envelope data with status.
func JSON(w http.ResponseWriter, status int, v any) {
	write(w, status, Envelope{Data: v})
}

// Error writes err as the envelope error. Errors that are not an HTTPError
// are reported as internal_error without leaking their text.
func Error(w http.ResponseWriter, err error) {
	var he HTTPError
	if !errors.As(err, &he) {
		he = ErrInternal
	}
	write(w, he.Status, Envelope{Error: &ErrorDetail{Code: he.Code, Message: he.Message}})
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
