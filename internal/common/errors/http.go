// internal/common/errors/http.go
package errors

import (
	"encoding/json"
	"net/http"
)

// Envelope is the client-facing error body.
type Envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// NewEnvelope classifies err and builds the body and status for it. Internal detail is only
// included when includeDetail is set (development environments).
func NewEnvelope(err error, includeDetail bool) (int, Envelope) {
	stdErr, ok := As(err)
	if !ok {
		stdErr = NewInternalError(err)
	}

	status := HTTPStatus(stdErr.Code)
	env := Envelope{
		Error:   http.StatusText(status),
		Message: stdErr.Message,
	}

	switch {
	case status < http.StatusInternalServerError:
		env.Detail = stdErr.Details
	case includeDetail:
		env.Detail = err.Error()
	}

	return status, env
}

// WriteError writes the envelope for err.
func WriteError(w http.ResponseWriter, err error, includeDetail bool) int {
	status, env := NewEnvelope(err, includeDetail)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
	return status
}
