// Package response writes JSON bodies. Entities are written bare; failures
// use the envelope {"status", "message", "errors"}.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/pantrypal/pantrypal/pkg/validate"
)

// Envelope is the error body shape.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message,omitempty"`
	Errors  validate.Errors `json:"errors,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Error sends the envelope with a message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Status: status, Message: message})
}

// ValidationError sends a 422 with field-level messages.
func ValidationError(w http.ResponseWriter, errs validate.Errors) {
	JSON(w, http.StatusUnprocessableEntity, Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, "Too Many Requests")
}
