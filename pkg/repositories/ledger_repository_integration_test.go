package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedforge/feedforge-engine/pkg/database"
	"github.com/feedforge/feedforge-engine/pkg/models"
	"github.com/feedforge/feedforge-engine/pkg/testhelpers"
)

func scopedContext(t *testing.T) (context.Context, uuid.UUID) {
	t.Helper()
	testDB := testhelpers.GetTestDB(t)
	userID := uuid.New()
	ctx := database.SetScope(context.Background(), &database.OwnerScope{
		DB:     testDB.Pool,
		UserID: userID,
	})
	return ctx, userID
}

func strPtr(s string) *string { return &s }

func TestLedgerRepository_AppendAndList(t *testing.T) {
	ctx, userID := scopedContext(t)
	repo := NewLedgerRepository()

	entry := &models.LedgerEntry{
		GenerationType: models.GenerationHashtags,
		Inputs:         map[string]any{"title": "Post", "body": "Body"},
		SystemPrompt:   strPtr("system"),
		UserPrompt:     strPtr("user"),
		Model:          strPtr("gpt-4o"),
		RawOutput:      strPtr(`{"broad":["ai"]}`),
		ParsedOutput:   []byte(`{"broad":["ai"],"niche":[],"trending":[]}`),
		TokenUsage:     &models.TokenUsage{PromptTokens: 5, CompletionTokens: 7, TotalTokens: 12},
	}
	require.NoError(t, repo.Append(ctx, entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, userID, entry.OwnerID)

	entries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, models.GenerationHashtags, got.GenerationType)
	assert.JSONEq(t, `{"broad":["ai"],"niche":[],"trending":[]}`, string(got.ParsedOutput))
	require.NotNil(t, got.TokenUsage)
	assert.Equal(t, 12, got.TokenUsage.TotalTokens)
}

func TestLedgerRepository_LinkEntityIsOnlyMutation(t *testing.T) {
	ctx, _ := scopedContext(t)
	repo := NewLedgerRepository()

	entry := &models.LedgerEntry{
		GenerationType: models.GenerationDraft,
		Inputs:         map[string]any{"title": "T"},
		RawOutput:      strPtr(`{"title":"T","body":"B"}`),
	}
	require.NoError(t, repo.Append(ctx, entry))

	draftID := uuid.New()
	require.NoError(t, repo.LinkEntity(ctx, entry.ID, models.EntityTypeDraft, draftID))

	entries, err := repo.ListByEntity(ctx, draftID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	linked := entries[0]
	require.NotNil(t, linked.CreatedEntityType)
	assert.Equal(t, models.EntityTypeDraft, *linked.CreatedEntityType)
	require.NotNil(t, linked.CreatedEntityID)
	assert.Equal(t, draftID, *linked.CreatedEntityID)

	// Everything except the two link columns is untouched.
	assert.Equal(t, entry.GenerationType, linked.GenerationType)
	require.NotNil(t, linked.RawOutput)
	assert.Equal(t, *entry.RawOutput, *linked.RawOutput)
}

func TestLedgerRepository_LinkEntityUnknownID(t *testing.T) {
	ctx, _ := scopedContext(t)
	repo := NewLedgerRepository()

	err := repo.LinkEntity(ctx, uuid.New(), models.EntityTypeDraft, uuid.New())
	assert.Error(t, err)
}

func TestLedgerRepository_ListByEntityIdempotent(t *testing.T) {
	ctx, _ := scopedContext(t)
	repo := NewLedgerRepository()

	draftID := uuid.New()
	for i := 0; i < 3; i++ {
		entry := &models.LedgerEntry{
			GenerationType: models.GenerationRewrite,
			Inputs:         map[string]any{"n": i},
		}
		require.NoError(t, repo.Append(ctx, entry))
		require.NoError(t, repo.LinkEntity(ctx, entry.ID, models.EntityTypeDraft, draftID))
	}

	first, err := repo.ListByEntity(ctx, draftID)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := repo.ListByEntity(ctx, draftID)
	require.NoError(t, err)
	require.Len(t, second, 3)

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	// Newest first.
	for i := 1; i < len(first); i++ {
		assert.False(t, first[i-1].CreatedAt.Before(first[i].CreatedAt))
	}
}

func TestLedgerRepository_OwnerIsolation(t *testing.T) {
	ctxA, _ := scopedContext(t)
	ctxB, _ := scopedContext(t)
	repo := NewLedgerRepository()

	entry := &models.LedgerEntry{GenerationType: models.GenerationTopics, Inputs: map[string]any{"count": 3}}
	require.NoError(t, repo.Append(ctxA, entry))

	entries, err := repo.ListRecent(ctxB, 50)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, entry.ID, e.ID, "owner B must not see owner A's entries")
	}
}
