package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraftStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    DraftStatus
		to      DraftStatus
		allowed bool
	}{
		{"draft to approved", DraftStatusDraft, DraftStatusApproved, true},
		{"approved to scheduled", DraftStatusApproved, DraftStatusScheduled, true},
		{"approved to published", DraftStatusApproved, DraftStatusPublished, true},
		{"scheduled to published", DraftStatusScheduled, DraftStatusPublished, true},
		{"draft to published skips approval", DraftStatusDraft, DraftStatusPublished, false},
		{"draft to scheduled skips approval", DraftStatusDraft, DraftStatusScheduled, false},
		{"published is terminal", DraftStatusPublished, DraftStatusDraft, false},
		{"published cannot be re-approved", DraftStatusPublished, DraftStatusApproved, false},
		{"approved cannot revert", DraftStatusApproved, DraftStatusDraft, false},
		{"scheduled cannot revert", DraftStatusScheduled, DraftStatusApproved, false},
		{"no self transition", DraftStatusDraft, DraftStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDraftStatus_IsValid(t *testing.T) {
	for _, s := range []DraftStatus{DraftStatusDraft, DraftStatusApproved, DraftStatusScheduled, DraftStatusPublished} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, DraftStatus("deleted").IsValid())
	assert.False(t, DraftStatus("").IsValid())
}
