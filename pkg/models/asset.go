package models

import (
	"time"

	"github.com/google/uuid"
)

// Asset is a stored media file record, AI-generated or uploaded.
type Asset struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	URL     string    `json:"url"`

	// Prompt is the generation prompt for AI-generated assets, nil for
	// manual uploads.
	Prompt        *string        `json:"prompt,omitempty"`
	IsAIGenerated bool           `json:"is_ai_generated"`
	Metadata      map[string]any `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
