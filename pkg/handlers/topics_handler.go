package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/models"
	"github.com/feedforge/feedforge-engine/pkg/services"
)

// TopicsHandler handles topic CRUD and conversion endpoints.
type TopicsHandler struct {
	content services.ContentService
	logger  *zap.Logger
}

// NewTopicsHandler creates a new TopicsHandler.
func NewTopicsHandler(content services.ContentService, logger *zap.Logger) *TopicsHandler {
	return &TopicsHandler{content: content, logger: logger.Named("topics_handler")}
}

// RegisterRoutes registers topic routes on the given mux.
func (h *TopicsHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /api/topics", wrap(h.Create))
	mux.HandleFunc("GET /api/topics", wrap(h.List))
	mux.HandleFunc("GET /api/topics/{id}", wrap(h.Get))
	mux.HandleFunc("PUT /api/topics/{id}", wrap(h.Update))
	mux.HandleFunc("POST /api/topics/{id}/status", wrap(h.UpdateStatus))
	mux.HandleFunc("POST /api/topics/{id}/convert", wrap(h.Convert))
	mux.HandleFunc("DELETE /api/topics/{id}", wrap(h.Delete))
}

type topicRequest struct {
	Title     string   `json:"title"`
	Hook      string   `json:"hook"`
	Rationale string   `json:"rationale"`
	Tags      []string `json:"tags"`
}

// Create handles POST /api/topics.
func (h *TopicsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	topic := &models.Topic{
		Title:     req.Title,
		Hook:      req.Hook,
		Rationale: req.Rationale,
		Tags:      req.Tags,
	}
	if err := h.content.CreateTopic(r.Context(), topic); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, topic); err != nil {
		h.logger.Error("Failed to encode topic", zap.Error(err))
	}
}

// List handles GET /api/topics?status=....
func (h *TopicsHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *models.TopicStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TopicStatus(raw)
		if !s.IsValid() {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_status", "Unknown topic status")
			return
		}
		status = &s
	}

	topics, err := h.content.ListTopics(r.Context(), status)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"topics": topics}); err != nil {
		h.logger.Error("Failed to encode topics", zap.Error(err))
	}
}

// Get handles GET /api/topics/{id}.
func (h *TopicsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	topic, err := h.content.GetTopic(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, topic); err != nil {
		h.logger.Error("Failed to encode topic", zap.Error(err))
	}
}

// Update handles PUT /api/topics/{id}.
func (h *TopicsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	topic, err := h.content.GetTopic(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	topic.Title = req.Title
	topic.Hook = req.Hook
	topic.Rationale = req.Rationale
	topic.Tags = req.Tags

	if err := h.content.UpdateTopic(r.Context(), topic); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, topic); err != nil {
		h.logger.Error("Failed to encode topic", zap.Error(err))
	}
}

// UpdateStatus handles POST /api/topics/{id}/status.
func (h *TopicsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req struct {
		Status models.TopicStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.content.UpdateTopicStatus(r.Context(), id, req.Status); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Convert handles POST /api/topics/{id}/convert. A pending archive is
// reported alongside the created draft rather than as a failure.
func (h *TopicsHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	draft, err := h.content.ConvertTopicToDraft(r.Context(), id)
	if err != nil && !errors.Is(err, apperrors.ErrArchivePending) {
		WriteServiceError(w, h.logger, err)
		return
	}

	response := map[string]any{"draft": draft}
	if errors.Is(err, apperrors.ErrArchivePending) {
		response["archive_pending"] = true
	}

	if err := WriteJSON(w, http.StatusCreated, response); err != nil {
		h.logger.Error("Failed to encode conversion result", zap.Error(err))
	}
}

// Delete handles DELETE /api/topics/{id}.
func (h *TopicsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.content.DeleteTopic(r.Context(), id); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
