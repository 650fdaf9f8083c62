// Package httputil centralizes JSON response and error writing so every
// handler emits the same envelopes.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "vitaledge/pkg/domain-errors"
)

// statusByCode maps service boundary codes to HTTP statuses.
var statusByCode = map[dErrors.Code]int{
	dErrors.CodeBadRequest:  http.StatusBadRequest,
	dErrors.CodeValidation:  http.StatusBadRequest,
	dErrors.CodeNotFound:    http.StatusNotFound,
	dErrors.CodeConflict:    http.StatusConflict,
	dErrors.CodeUnavailable: http.StatusServiceUnavailable,
	dErrors.CodeInternal:    http.StatusInternalServerError,
}

// ToHTTPStatus translates a domain error code to an HTTP status code.
func ToHTTPStatus(code dErrors.Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard error envelope. Internal errors omit the
// description so infrastructure details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		body["error_description"] = err.Error()
	}
	WriteJSON(w, ToHTTPStatus(code), body)
}
