package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/services"
)

// PublicationsHandler handles publication listing and metric updates.
// Publications are created through the draft publish endpoint; the snapshot
// content itself is immutable here.
type PublicationsHandler struct {
	publish services.PublishService
	logger  *zap.Logger
}

// NewPublicationsHandler creates a new PublicationsHandler.
func NewPublicationsHandler(publish services.PublishService, logger *zap.Logger) *PublicationsHandler {
	return &PublicationsHandler{publish: publish, logger: logger.Named("publications_handler")}
}

// RegisterRoutes registers publication routes on the given mux.
func (h *PublicationsHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/publications", wrap(h.List))
	mux.HandleFunc("GET /api/publications/{id}", wrap(h.Get))
	mux.HandleFunc("PATCH /api/publications/{id}/metrics", wrap(h.UpdateMetrics))
}

// List handles GET /api/publications.
func (h *PublicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	pubs, err := h.publish.ListPublications(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"publications": pubs}); err != nil {
		h.logger.Error("Failed to encode publications", zap.Error(err))
	}
}

// Get handles GET /api/publications/{id}.
func (h *PublicationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	pub, err := h.publish.GetPublication(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, pub); err != nil {
		h.logger.Error("Failed to encode publication", zap.Error(err))
	}
}

// UpdateMetrics handles PATCH /api/publications/{id}/metrics.
func (h *PublicationsHandler) UpdateMetrics(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req struct {
		Likes       int `json:"likes"`
		Comments    int `json:"comments"`
		Impressions int `json:"impressions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.publish.UpdateMetrics(r.Context(), id, req.Likes, req.Comments, req.Impressions); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
