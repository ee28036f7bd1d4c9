package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/models"
	"github.com/feedforge/feedforge-engine/pkg/repositories"
	"github.com/feedforge/feedforge-engine/pkg/services"
)

// GenerationHandler exposes the orchestrator and the ledger listing
// endpoints.
type GenerationHandler struct {
	generation services.GenerationService
	ledgerRepo repositories.LedgerRepository
	logger     *zap.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generation services.GenerationService, ledgerRepo repositories.LedgerRepository, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{
		generation: generation,
		ledgerRepo: ledgerRepo,
		logger:     logger.Named("generation_handler"),
	}
}

// RegisterRoutes registers generation routes on the given mux.
func (h *GenerationHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /api/generate", wrap(h.Generate))
	mux.HandleFunc("GET /api/ledger", wrap(h.ListRecent))
	mux.HandleFunc("GET /api/ledger/entity/{id}", wrap(h.ListByEntity))
}

// generateRequest is the wire form of a generation request: a type tag, the
// type-specific input payload, and an optional target entity.
type generateRequest struct {
	Type   models.GenerationType `json:"type"`
	Input  json.RawMessage       `json:"input"`
	Target *models.EntityRef     `json:"target,omitempty"`
}

// decodeInput unmarshals the raw input into the payload struct for the
// request's generation type.
func (req *generateRequest) decodeInput() (models.GenerationInput, error) {
	if len(req.Input) == 0 {
		return nil, fmt.Errorf("input is required")
	}

	unmarshal := func(v models.GenerationInput) (models.GenerationInput, error) {
		if err := json.Unmarshal(req.Input, v); err != nil {
			return nil, fmt.Errorf("invalid %s input: %w", req.Type, err)
		}
		return v, nil
	}

	switch req.Type {
	case models.GenerationTopics:
		in, err := unmarshal(&models.TopicsInput{})
		if err != nil {
			return nil, err
		}
		return *in.(*models.TopicsInput), nil
	case models.GenerationDraft:
		in, err := unmarshal(&models.DraftInput{})
		if err != nil {
			return nil, err
		}
		return *in.(*models.DraftInput), nil
	case models.GenerationHashtags:
		in, err := unmarshal(&models.HashtagsInput{})
		if err != nil {
			return nil, err
		}
		return *in.(*models.HashtagsInput), nil
	case models.GenerationRewrite:
		in, err := unmarshal(&models.RewriteInput{})
		if err != nil {
			return nil, err
		}
		return *in.(*models.RewriteInput), nil
	case models.GenerationImageDescription:
		in, err := unmarshal(&models.ImageDescriptionInput{})
		if err != nil {
			return nil, err
		}
		return *in.(*models.ImageDescriptionInput), nil
	case models.GenerationImage:
		in, err := unmarshal(&models.ImageInput{})
		if err != nil {
			return nil, err
		}
		return *in.(*models.ImageInput), nil
	default:
		return nil, fmt.Errorf("unknown generation type %q", req.Type)
	}
}

// Generate handles POST /api/generate.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	input, err := req.decodeInput()
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.generation.Generate(r.Context(), &models.GenerationRequest{
		Input:  input,
		Target: req.Target,
	})
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode generation result", zap.Error(err))
	}
}

// ListRecent handles GET /api/ledger?limit=N.
func (h *GenerationHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	entries, err := h.ledgerRepo.ListRecent(r.Context(), limit)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"entries": entries}); err != nil {
		h.logger.Error("Failed to encode ledger entries", zap.Error(err))
	}
}

// ListByEntity handles GET /api/ledger/entity/{id}.
func (h *GenerationHandler) ListByEntity(w http.ResponseWriter, r *http.Request) {
	entityID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	entries, err := h.ledgerRepo.ListByEntity(r.Context(), entityID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"entries": entries}); err != nil {
		h.logger.Error("Failed to encode ledger entries", zap.Error(err))
	}
}
