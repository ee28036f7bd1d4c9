package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/models"
	"github.com/feedforge/feedforge-engine/pkg/services"
)

// NewsHandler handles researched news item endpoints.
type NewsHandler struct {
	content services.ContentService
	logger  *zap.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(content services.ContentService, logger *zap.Logger) *NewsHandler {
	return &NewsHandler{content: content, logger: logger.Named("news_handler")}
}

// RegisterRoutes registers news routes on the given mux.
func (h *NewsHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /api/news", wrap(h.Create))
	mux.HandleFunc("GET /api/news", wrap(h.List))
	mux.HandleFunc("GET /api/news/{id}", wrap(h.Get))
	mux.HandleFunc("DELETE /api/news/{id}", wrap(h.Delete))
}

// Create handles POST /api/news.
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL         string     `json:"url"`
		Title       string     `json:"title"`
		Summary     string     `json:"summary"`
		Source      string     `json:"source"`
		Tags        []string   `json:"tags"`
		PublishedAt *time.Time `json:"published_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	item := &models.NewsItem{
		URL:         req.URL,
		Title:       req.Title,
		Summary:     req.Summary,
		Source:      req.Source,
		Tags:        req.Tags,
		PublishedAt: req.PublishedAt,
	}
	if err := h.content.CreateNewsItem(r.Context(), item); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, item); err != nil {
		h.logger.Error("Failed to encode news item", zap.Error(err))
	}
}

// List handles GET /api/news.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.ListNewsItems(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"news": items}); err != nil {
		h.logger.Error("Failed to encode news items", zap.Error(err))
	}
}

// Get handles GET /api/news/{id}.
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	item, err := h.content.GetNewsItem(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, item); err != nil {
		h.logger.Error("Failed to encode news item", zap.Error(err))
	}
}

// Delete handles DELETE /api/news/{id}.
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.content.DeleteNewsItem(r.Context(), id); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
