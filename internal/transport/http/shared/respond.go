// Package shared holds the response helpers every handler uses, so the JSON
// envelope and domain-error translation stay identical across routes.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "almoner/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope. Code is the machine-readable
// domain error code; Message is safe for end users.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// WriteError translates a domain error into the JSON error envelope. Unknown
// errors collapse to internal_error so internals never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := dErrors.MessageOf(err)
	if code == dErrors.CodeInternal {
		message = "internal error"
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorResponse{
		Error:   string(code),
		Message: message,
	})
}
