package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, TopicStatusNew.CanTransitionTo(TopicStatusShortlisted))
	assert.True(t, TopicStatusNew.CanTransitionTo(TopicStatusArchived))
	assert.True(t, TopicStatusShortlisted.CanTransitionTo(TopicStatusArchived))

	// Archived is terminal.
	assert.False(t, TopicStatusArchived.CanTransitionTo(TopicStatusNew))
	assert.False(t, TopicStatusArchived.CanTransitionTo(TopicStatusShortlisted))
	// No path back to new.
	assert.False(t, TopicStatusShortlisted.CanTransitionTo(TopicStatusNew))
}
