package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"campus-connect-backend/internal/ledger"
	"campus-connect-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// statusFor maps service and ledger errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case ledger.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrCatalogUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrUploadsDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError logs err and sends it with the mapped status. Storage
// failures are not echoed to the client.
func respondServiceError(w http.ResponseWriter, err error, deviceID, eventID, msg string) {
	statusCode := statusFor(err)

	entry := log.Warn()
	if statusCode >= http.StatusInternalServerError {
		entry = log.Error()
	}
	entry.Err(err).
		Str("device_id", deviceID).
		Str("event_id", eventID).
		Msg(msg)

	message := err.Error()
	if ledger.IsStorage(err) {
		message = "storage failure"
	}
	respondError(w, message, statusCode)
}
