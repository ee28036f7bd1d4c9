package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftStatus is the lifecycle state of a draft post.
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusApproved  DraftStatus = "approved"
	DraftStatusScheduled DraftStatus = "scheduled"
	DraftStatusPublished DraftStatus = "published"
)

// IsValid returns true if the status is a known draft status.
func (s DraftStatus) IsValid() bool {
	switch s {
	case DraftStatusDraft, DraftStatusApproved, DraftStatusScheduled, DraftStatusPublished:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the status change is legal:
// draft -> approved, approved -> scheduled|published, scheduled -> published.
// Published is terminal; there is no path back.
func (s DraftStatus) CanTransitionTo(target DraftStatus) bool {
	switch s {
	case DraftStatusDraft:
		return target == DraftStatusApproved
	case DraftStatusApproved:
		return target == DraftStatusScheduled || target == DraftStatusPublished
	case DraftStatusScheduled:
		return target == DraftStatusPublished
	default:
		return false
	}
}

// Draft is an editable, unpublished post body plus metadata.
type Draft struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`

	HashtagsBroad    []string `json:"hashtags_broad,omitempty"`
	HashtagsNiche    []string `json:"hashtags_niche,omitempty"`
	HashtagsTrending []string `json:"hashtags_trending,omitempty"`

	ImageDescription *string    `json:"image_description,omitempty"`
	ImageAssetID     *uuid.UUID `json:"image_asset_id,omitempty"`
	TopicID          *uuid.UUID `json:"topic_id,omitempty"` // originating topic, if converted

	Language string      `json:"language,omitempty"`
	Status   DraftStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
