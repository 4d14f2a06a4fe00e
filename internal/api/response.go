package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/dreytengan/futurepaths/internal/resume"
	"github.com/dreytengan/futurepaths/internal/service"
)

// HTTPError carries the status code a handler failure maps to.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) (int, string) {
	var httpErr *HTTPError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "upload too large"
	case errors.Is(err, service.ErrEmptyQuery):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrThinProfile), errors.Is(err, resume.ErrNoText):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func decodeJSON(r *http.Request, v any) error {
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt != "application/json" {
		return &HTTPError{Code: http.StatusUnsupportedMediaType, Message: "Content-Type must be application/json"}
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &HTTPError{Code: http.StatusBadRequest, Message: "invalid JSON payload: " + err.Error()}
	}
	return nil
}
