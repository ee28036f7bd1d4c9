package models

import (
	"time"

	"github.com/google/uuid"
)

// LinkedInToken holds one user's OAuth tokens for publishing.
type LinkedInToken struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	MemberURN    string    `json:"member_urn,omitempty"` // "urn:li:person:..." author for UGC posts
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Expired reports whether the access token is expired or about to expire.
// A small skew avoids publishing with a token that dies mid-request.
func (t *LinkedInToken) Expired(now time.Time) bool {
	return !now.Add(time.Minute).Before(t.ExpiresAt)
}
