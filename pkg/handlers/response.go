// Package handlers exposes the HTTP API. Each handler is a struct holding
// its service dependencies, registered on a ServeMux via RegisterRoutes.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
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

// WriteServiceError maps the error taxonomy to HTTP statuses. Generation
// failures that left a ledger row include its id so the caller can inspect
// the recorded attempt.
func WriteServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		providerErr  *apperrors.ProviderError
		malformedErr *apperrors.MalformedOutputError
		applyErr     *apperrors.ApplyError
		cleanupErr   *apperrors.ReferentialCleanupError
	)

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, apperrors.ErrInvalidTransition):
		_ = ErrorResponse(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		_ = ErrorResponse(w, http.StatusConflict, "conflict", err.Error())
	case errors.As(err, &providerErr):
		logger.Warn("provider call failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "provider_error", providerErr.Message)
	case errors.As(err, &malformedErr):
		logger.Warn("provider output unparseable", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":     "malformed_output",
			"message":   "Provider response could not be parsed; raw output is on the ledger",
			"ledger_id": malformedErr.LedgerID.String(),
		})
	case errors.As(err, &applyErr):
		logger.Error("apply step failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":     "apply_failed",
			"message":   "Generation was recorded but could not be applied to the target entity",
			"ledger_id": applyErr.LedgerID.String(),
		})
	case errors.As(err, &cleanupErr):
		logger.Error("referential cleanup failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "cleanup_failed", "Delete aborted: references could not be cleared")
	default:
		logger.Error("request failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
