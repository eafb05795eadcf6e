package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/middlemost/radio"
)

const (
	ErrInvalidJSON      = radio.Error("invalid json body")
	ErrProgressRequired = radio.Error("progress required")
	ErrEventsDisabled   = radio.Error("session events unavailable")
)

// errorMap is a whitelist that maps errors to status codes.
var errorMap = map[error]int{
	radio.ErrFilenameRequired: http.StatusBadRequest,
	radio.ErrInvalidFilename:  http.StatusBadRequest,
	radio.ErrFileNotFound:     http.StatusNotFound,
	ErrInvalidJSON:            http.StatusBadRequest,
	ErrProgressRequired:       http.StatusBadRequest,
	ErrEventsDisabled:         http.StatusServiceUnavailable,
}

// ErrorStatusCode returns the HTTP status code for an error object.
func ErrorStatusCode(err error) int {
	if code, ok := errorMap[err]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Error writes an error reponse to the writer.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	// Determine status code.
	code := ErrorStatusCode(err)

	// Log error.
	logf(r.Context(), "http error: %d %s", code, err.Error())

	// Mask unrecognized errors from end users.
	if _, ok := errorMap[err]; !ok {
		err = radio.ErrInternal
	}

	// Write response.
	switch {
	case strings.Contains(r.Header.Get("Accept"), "application/json"):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(&errorResponse{Err: err.Error()})

	default:
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(code)
		w.Write([]byte(err.Error()))
	}
}

type errorResponse struct {
	Err string `json:"error,omitempty"`
}

// encodeJSON writes v as a JSON response.
func encodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Error(w, r, err)
	}
}
