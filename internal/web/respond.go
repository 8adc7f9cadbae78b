// Package web holds the JSON response and error-mapping helpers shared by
// all handlers.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lseverin/mapclash/backend/internal/models"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes a domain error as `{"error": ...}` with the mapped status.
// Unexpected errors are logged and surfaced as a generic 500.
func Error(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("unhandled error", "err", err)
		msg = "server error"
	}
	JSON(w, status, map[string]string{"error": msg})
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrPrecondition):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
