package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsItem is a researched news article saved as raw material for topics.
type NewsItem struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	Summary string    `json:"summary,omitempty"`
	Source  string    `json:"source,omitempty"`
	Tags    []string  `json:"tags,omitempty"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
