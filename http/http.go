package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"tower"
)

// ErrorResponse represents a JSON structure for error output.
type ErrorResponse struct {
	Error string `json:"error"`
}

// encodeError prints an error message as JSON with a status code derived
// from the application error code.
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	// A client that gave up waiting for readiness gets a not-ready answer
	// rather than an internal error.
	if errors.Is(err, context.DeadlineExceeded) {
		err = tower.Errorf(tower.ENOTREADY, "Service did not become ready in time.")
	}

	// Extract error code & message.
	code, message := tower.ErrorCode(err), tower.ErrorMessage(err)

	// Print user message to response.
	w.Header().Set("Content-type", "application/json")
	w.WriteHeader(ErrorStatusCode(code))
	_ = json.NewEncoder(w).Encode(&ErrorResponse{Error: message})
}

// encodeResponse is the common method to encode all response types to the
// client. Service failures never reach it: they come back as endpoint errors
// and go through encodeError.
func encodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

// lookup of application error codes to HTTP status codes.
var codes = map[string]int{
	tower.EINVALID:        http.StatusBadRequest,
	tower.ENOTIMPLEMENTED: http.StatusNotImplemented,
	tower.ENOTREADY:       http.StatusServiceUnavailable,
	tower.EINTERNAL:       http.StatusInternalServerError,
}

// ErrorStatusCode returns the associated HTTP status code for an error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}
