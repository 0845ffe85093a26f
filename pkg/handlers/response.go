// Package handlers exposes the HTTP API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tripsight/tripsight-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeServiceError translates the service error taxonomy to HTTP. A
// rejection keeps its category as the error code; store and generation
// failures become opaque 5xx responses so internals stay internal.
func writeServiceError(w http.ResponseWriter, err error) error {
	if rej, ok := apperrors.AsRejection(err); ok {
		status := http.StatusUnprocessableEntity
		if rej.Category == apperrors.RejectionSecurity {
			status = http.StatusForbidden
		}
		return ErrorResponse(w, status, string(rej.Category), rej.Message)
	}

	var gen *apperrors.GenerationError
	if errors.As(err, &gen) {
		return ErrorResponse(w, http.StatusBadGateway, "generation_failed",
			"The assistant could not generate a query. Please try again.")
	}

	var dae *apperrors.DataAccessError
	if errors.As(err, &dae) {
		return ErrorResponse(w, http.StatusServiceUnavailable, "store_unavailable",
			"A backing store is unavailable. Please try again.")
	}

	return ErrorResponse(w, http.StatusInternalServerError, "internal_error",
		"An unexpected error occurred.")
}
