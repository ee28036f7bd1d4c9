package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/models"
	"github.com/feedforge/feedforge-engine/pkg/services"
)

// AssetsHandler handles media asset record endpoints. AI-generated assets
// are created through the generation pipeline; this surface registers
// manually uploaded media and handles listing and deletion.
type AssetsHandler struct {
	content services.ContentService
	logger  *zap.Logger
}

// NewAssetsHandler creates a new AssetsHandler.
func NewAssetsHandler(content services.ContentService, logger *zap.Logger) *AssetsHandler {
	return &AssetsHandler{content: content, logger: logger.Named("assets_handler")}
}

// RegisterRoutes registers asset routes on the given mux.
func (h *AssetsHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /api/assets", wrap(h.Create))
	mux.HandleFunc("GET /api/assets", wrap(h.List))
	mux.HandleFunc("GET /api/assets/{id}", wrap(h.Get))
	mux.HandleFunc("DELETE /api/assets/{id}", wrap(h.Delete))
}

// Create handles POST /api/assets.
func (h *AssetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL      string         `json:"url"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	asset := &models.Asset{
		URL:      req.URL,
		Metadata: req.Metadata,
	}
	if err := h.content.CreateAsset(r.Context(), asset); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, asset); err != nil {
		h.logger.Error("Failed to encode asset", zap.Error(err))
	}
}

// List handles GET /api/assets.
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.content.ListAssets(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"assets": assets}); err != nil {
		h.logger.Error("Failed to encode assets", zap.Error(err))
	}
}

// Get handles GET /api/assets/{id}.
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	asset, err := h.content.GetAsset(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, asset); err != nil {
		h.logger.Error("Failed to encode asset", zap.Error(err))
	}
}

// Delete handles DELETE /api/assets/{id}.
func (h *AssetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.content.DeleteAsset(r.Context(), id); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
