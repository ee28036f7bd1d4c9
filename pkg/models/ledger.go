package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GenerationType identifies which AI capability produced a ledger entry.
type GenerationType string

const (
	GenerationTopics           GenerationType = "topics"
	GenerationDraft            GenerationType = "draft"
	GenerationHashtags         GenerationType = "hashtags"
	GenerationRewrite          GenerationType = "rewrite"
	GenerationImageDescription GenerationType = "image_description"
	GenerationImage            GenerationType = "image"
)

// String returns the string representation of a GenerationType.
func (t GenerationType) String() string {
	return string(t)
}

// IsValid returns true if the type is a supported generation type.
func (t GenerationType) IsValid() bool {
	switch t {
	case GenerationTopics, GenerationDraft, GenerationHashtags,
		GenerationRewrite, GenerationImageDescription, GenerationImage:
		return true
	default:
		return false
	}
}

// TokenUsage holds provider-reported token counters for one call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// LedgerEntry is the immutable record of one AI generation attempt.
// Entries are write-once: after creation only CreatedEntityType and
// CreatedEntityID may be populated (via LedgerRepository.LinkEntity), and
// only as part of the same logical generation step. Entity deletion never
// removes ledger history.
type LedgerEntry struct {
	ID             uuid.UUID       `json:"id"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	GenerationType GenerationType  `json:"generation_type"`
	Inputs         map[string]any  `json:"inputs,omitempty"` // caller-supplied, opaque to the core
	SystemPrompt   *string         `json:"system_prompt,omitempty"`
	UserPrompt     *string         `json:"user_prompt,omitempty"`
	Model          *string         `json:"model,omitempty"`
	RawOutput      *string         `json:"raw_output,omitempty"`
	ParsedOutput   json.RawMessage `json:"parsed_output,omitempty"` // null when parsing failed
	TokenUsage     *TokenUsage     `json:"token_usage,omitempty"`

	// Back-reference to the content entity this generation produced or
	// updated. Nullable; the ledger references entities, never the reverse.
	CreatedEntityType *string    `json:"created_entity_type,omitempty"`
	CreatedEntityID   *uuid.UUID `json:"created_entity_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Entity type names recorded in LedgerEntry.CreatedEntityType.
const (
	EntityTypeTopic       = "topic"
	EntityTypeDraft       = "draft"
	EntityTypeAsset       = "asset"
	EntityTypePublication = "publication"
	EntityTypeNewsItem    = "news_item"
)
