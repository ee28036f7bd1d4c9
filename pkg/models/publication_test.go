package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFromDraft_DeepCopy(t *testing.T) {
	imageURL := "https://cdn.example.com/img.png"
	draft := &Draft{
		ID:            uuid.New(),
		Title:         "Original title",
		Body:          "Original body",
		HashtagsBroad: []string{"ai"},
		HashtagsNiche: []string{"tooling"},
		Language:      "en",
	}

	snapshot := SnapshotFromDraft(draft, &imageURL)

	// Mutate the draft after snapshotting.
	draft.Title = "Edited title"
	draft.Body = "Edited body"
	draft.HashtagsBroad[0] = "crypto"
	draft.HashtagsNiche = append(draft.HashtagsNiche, "extra")
	imageURL = "https://cdn.example.com/other.png"

	assert.Equal(t, "Original title", snapshot.Title)
	assert.Equal(t, "Original body", snapshot.Body)
	assert.Equal(t, []string{"ai"}, snapshot.HashtagsBroad)
	assert.Equal(t, []string{"tooling"}, snapshot.HashtagsNiche)
	require.NotNil(t, snapshot.ImageURL)
	assert.Equal(t, "https://cdn.example.com/img.png", *snapshot.ImageURL)
}

func TestSnapshotFromDraft_EmptyOptionalFields(t *testing.T) {
	snapshot := SnapshotFromDraft(&Draft{Title: "T", Body: "B"}, nil)
	assert.Nil(t, snapshot.HashtagsBroad)
	assert.Nil(t, snapshot.ImageURL)
}
