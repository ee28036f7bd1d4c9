package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/models"
	"github.com/feedforge/feedforge-engine/pkg/services"
)

// DraftsHandler handles draft CRUD, status transitions, and publishing.
type DraftsHandler struct {
	content services.ContentService
	publish services.PublishService
	logger  *zap.Logger
}

// NewDraftsHandler creates a new DraftsHandler.
func NewDraftsHandler(content services.ContentService, publish services.PublishService, logger *zap.Logger) *DraftsHandler {
	return &DraftsHandler{
		content: content,
		publish: publish,
		logger:  logger.Named("drafts_handler"),
	}
}

// RegisterRoutes registers draft routes on the given mux.
func (h *DraftsHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /api/drafts", wrap(h.Create))
	mux.HandleFunc("GET /api/drafts", wrap(h.List))
	mux.HandleFunc("GET /api/drafts/{id}", wrap(h.Get))
	mux.HandleFunc("PUT /api/drafts/{id}", wrap(h.Update))
	mux.HandleFunc("POST /api/drafts/{id}/status", wrap(h.UpdateStatus))
	mux.HandleFunc("POST /api/drafts/{id}/publish", wrap(h.Publish))
	mux.HandleFunc("DELETE /api/drafts/{id}", wrap(h.Delete))
}

type draftRequest struct {
	Title            string     `json:"title"`
	Body             string     `json:"body"`
	HashtagsBroad    []string   `json:"hashtags_broad"`
	HashtagsNiche    []string   `json:"hashtags_niche"`
	HashtagsTrending []string   `json:"hashtags_trending"`
	ImageDescription *string    `json:"image_description"`
	ImageAssetID     *uuid.UUID `json:"image_asset_id"`
	Language         string     `json:"language"`
}

// Create handles POST /api/drafts.
func (h *DraftsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	draft := &models.Draft{
		Title:            req.Title,
		Body:             req.Body,
		HashtagsBroad:    req.HashtagsBroad,
		HashtagsNiche:    req.HashtagsNiche,
		HashtagsTrending: req.HashtagsTrending,
		ImageDescription: req.ImageDescription,
		ImageAssetID:     req.ImageAssetID,
		Language:         req.Language,
	}
	if err := h.content.CreateDraft(r.Context(), draft); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, draft); err != nil {
		h.logger.Error("Failed to encode draft", zap.Error(err))
	}
}

// List handles GET /api/drafts?status=....
func (h *DraftsHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *models.DraftStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.DraftStatus(raw)
		if !s.IsValid() {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_status", "Unknown draft status")
			return
		}
		status = &s
	}

	drafts, err := h.content.ListDrafts(r.Context(), status)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"drafts": drafts}); err != nil {
		h.logger.Error("Failed to encode drafts", zap.Error(err))
	}
}

// Get handles GET /api/drafts/{id}.
func (h *DraftsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	draft, err := h.content.GetDraft(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, draft); err != nil {
		h.logger.Error("Failed to encode draft", zap.Error(err))
	}
}

// Update handles PUT /api/drafts/{id}. Status is not editable here; use the
// status endpoint so transitions stay guarded.
func (h *DraftsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	draft, err := h.content.GetDraft(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	draft.Title = req.Title
	draft.Body = req.Body
	draft.HashtagsBroad = req.HashtagsBroad
	draft.HashtagsNiche = req.HashtagsNiche
	draft.HashtagsTrending = req.HashtagsTrending
	draft.ImageDescription = req.ImageDescription
	draft.ImageAssetID = req.ImageAssetID
	if req.Language != "" {
		draft.Language = req.Language
	}

	if err := h.content.UpdateDraft(r.Context(), draft); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, draft); err != nil {
		h.logger.Error("Failed to encode draft", zap.Error(err))
	}
}

// UpdateStatus handles POST /api/drafts/{id}/status.
func (h *DraftsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req struct {
		Status models.DraftStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.content.UpdateDraftStatus(r.Context(), id, req.Status); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Publish handles POST /api/drafts/{id}/publish.
func (h *DraftsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req struct {
		Manual  bool    `json:"manual"`
		PostURL *string `json:"post_url"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}
	}

	pub, err := h.publish.Publish(r.Context(), id, services.PublishOptions{
		Manual:  req.Manual,
		PostURL: req.PostURL,
	})
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, pub); err != nil {
		h.logger.Error("Failed to encode publication", zap.Error(err))
	}
}

// Delete handles DELETE /api/drafts/{id}.
func (h *DraftsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.content.DeleteDraft(r.Context(), id); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
