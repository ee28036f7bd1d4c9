package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/services"
)

// SettingsHandler handles per-owner settings endpoints.
type SettingsHandler struct {
	settings services.SettingsService
	logger   *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings services.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger.Named("settings_handler")}
}

// RegisterRoutes registers settings routes on the given mux.
func (h *SettingsHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/settings", wrap(h.GetAll))
	mux.HandleFunc("GET /api/settings/{key}", wrap(h.Get))
	mux.HandleFunc("PUT /api/settings/{key}", wrap(h.Set))
	mux.HandleFunc("DELETE /api/settings/{key}", wrap(h.Delete))
}

// GetAll handles GET /api/settings.
func (h *SettingsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetAll(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"settings": settings}); err != nil {
		h.logger.Error("Failed to encode settings", zap.Error(err))
	}
}

// Get handles GET /api/settings/{key}.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	value, err := h.settings.Get(r.Context(), key)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"key": key, "value": value}); err != nil {
		h.logger.Error("Failed to encode setting", zap.Error(err))
	}
}

// Set handles PUT /api/settings/{key}.
func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.settings.Set(r.Context(), key, req.Value); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/settings/{key}.
func (h *SettingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if err := h.settings.Delete(r.Context(), key); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
