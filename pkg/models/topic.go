package models

import (
	"time"

	"github.com/google/uuid"
)

// TopicStatus is the lifecycle state of a topic idea.
type TopicStatus string

const (
	TopicStatusNew         TopicStatus = "new"
	TopicStatusShortlisted TopicStatus = "shortlisted"
	TopicStatusArchived    TopicStatus = "archived"
)

// IsValid returns true if the status is a known topic status.
func (s TopicStatus) IsValid() bool {
	switch s {
	case TopicStatusNew, TopicStatusShortlisted, TopicStatusArchived:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the status change is legal:
// new -> shortlisted, new|shortlisted -> archived. Archived is terminal.
func (s TopicStatus) CanTransitionTo(target TopicStatus) bool {
	switch s {
	case TopicStatusNew:
		return target == TopicStatusShortlisted || target == TopicStatusArchived
	case TopicStatusShortlisted:
		return target == TopicStatusArchived
	default:
		return false
	}
}

// Topic is a candidate content idea, pre-draft.
type Topic struct {
	ID        uuid.UUID   `json:"id"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	Title     string      `json:"title"`
	Hook      string      `json:"hook,omitempty"`
	Rationale string      `json:"rationale,omitempty"`
	Tags      []string    `json:"tags,omitempty"`
	Status    TopicStatus `json:"status"`

	// Provenance links. Both nullable; cleared (never cascaded) when the
	// referenced row is deleted.
	LedgerEntryID *uuid.UUID `json:"ledger_entry_id,omitempty"`
	NewsItemID    *uuid.UUID `json:"news_item_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
