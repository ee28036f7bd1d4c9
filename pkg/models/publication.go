package models

import (
	"time"

	"github.com/google/uuid"
)

// PublicationContent is the frozen value copy of a draft taken at publish
// time. Subsequent edits to the source draft never alter it.
type PublicationContent struct {
	Title            string   `json:"title"`
	Body             string   `json:"body"`
	HashtagsBroad    []string `json:"hashtags_broad,omitempty"`
	HashtagsNiche    []string `json:"hashtags_niche,omitempty"`
	HashtagsTrending []string `json:"hashtags_trending,omitempty"`
	ImageURL         *string  `json:"image_url,omitempty"`
	Language         string   `json:"language,omitempty"`
}

// SnapshotFromDraft deep-copies the publishable fields of a draft. Slices
// are copied so later in-place edits to the draft cannot show through.
func SnapshotFromDraft(d *Draft, imageURL *string) PublicationContent {
	content := PublicationContent{
		Title:    d.Title,
		Body:     d.Body,
		Language: d.Language,
	}
	if len(d.HashtagsBroad) > 0 {
		content.HashtagsBroad = append([]string(nil), d.HashtagsBroad...)
	}
	if len(d.HashtagsNiche) > 0 {
		content.HashtagsNiche = append([]string(nil), d.HashtagsNiche...)
	}
	if len(d.HashtagsTrending) > 0 {
		content.HashtagsTrending = append([]string(nil), d.HashtagsTrending...)
	}
	if imageURL != nil {
		u := *imageURL
		content.ImageURL = &u
	}
	return content
}

// Publication is an immutable snapshot of published content plus engagement
// metrics. Only the metrics fields are mutable after creation.
type Publication struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`

	// DraftID links back to the source draft; nullable so draft deletion
	// can clear it without touching the snapshot.
	DraftID *uuid.UUID `json:"draft_id,omitempty"`

	FinalContent    PublicationContent `json:"final_content"`
	PostURL         *string            `json:"post_url,omitempty"`
	IsManualPublish bool               `json:"is_manual_publish"`

	Likes       int `json:"likes"`
	Comments    int `json:"comments"`
	Impressions int `json:"impressions"`

	PublishedAt time.Time `json:"published_at"`
}
