package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/models"
)

func TestDraftRepository_CreateDefaults(t *testing.T) {
	ctx, userID := scopedContext(t)
	repo := NewDraftRepository()

	draft := &models.Draft{Title: "First", Body: "Hello"}
	require.NoError(t, repo.Create(ctx, draft))

	got, err := repo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.OwnerID)
	assert.Equal(t, models.DraftStatusDraft, got.Status)
	assert.Equal(t, "en", got.Language)
	assert.Empty(t, got.HashtagsBroad)
}

func TestDraftRepository_UpdateDoesNotTouchStatus(t *testing.T) {
	ctx, _ := scopedContext(t)
	repo := NewDraftRepository()

	draft := &models.Draft{Title: "Post", Body: "Body"}
	require.NoError(t, repo.Create(ctx, draft))
	require.NoError(t, repo.UpdateStatus(ctx, draft.ID, models.DraftStatusApproved))

	draft.Body = "Edited body"
	draft.Status = models.DraftStatusPublished // must be ignored by Update
	draft.HashtagsBroad = []string{"ai", "tech"}
	require.NoError(t, repo.Update(ctx, draft))

	got, err := repo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited body", got.Body)
	assert.Equal(t, []string{"ai", "tech"}, got.HashtagsBroad)
	assert.Equal(t, models.DraftStatusApproved, got.Status)
}

func TestDraftRepository_ClearImageAsset(t *testing.T) {
	ctx, _ := scopedContext(t)
	draftRepo := NewDraftRepository()
	assetRepo := NewAssetRepository()

	asset := &models.Asset{URL: "https://files.test/generated/a.png", IsAIGenerated: true}
	require.NoError(t, assetRepo.Create(ctx, asset))

	draft := &models.Draft{Title: "With image", Body: "B", ImageAssetID: &asset.ID}
	require.NoError(t, draftRepo.Create(ctx, draft))

	require.NoError(t, draftRepo.ClearImageAsset(ctx, asset.ID))
	require.NoError(t, assetRepo.Delete(ctx, asset.ID))

	got, err := draftRepo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ImageAssetID)
}

func TestDraftRepository_ClearTopicRef(t *testing.T) {
	ctx, _ := scopedContext(t)
	draftRepo := NewDraftRepository()
	topicRepo := NewTopicRepository()

	topic := &models.Topic{Title: "Topic", Hook: "Hook"}
	require.NoError(t, topicRepo.Create(ctx, topic))

	draft := &models.Draft{Title: "From topic", Body: "B", TopicID: &topic.ID}
	require.NoError(t, draftRepo.Create(ctx, draft))

	require.NoError(t, draftRepo.ClearTopicRef(ctx, topic.ID))
	require.NoError(t, topicRepo.Delete(ctx, topic.ID))

	got, err := draftRepo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TopicID)
}

func TestDraftRepository_OwnerScoping(t *testing.T) {
	ctxA, _ := scopedContext(t)
	ctxB, _ := scopedContext(t)
	repo := NewDraftRepository()

	draft := &models.Draft{Title: "Mine", Body: "B"}
	require.NoError(t, repo.Create(ctxA, draft))

	_, err := repo.GetByID(ctxB, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = repo.UpdateStatus(ctxB, draft.ID, models.DraftStatusApproved)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTopicRepository_ClearNewsItemRef(t *testing.T) {
	ctx, _ := scopedContext(t)
	topicRepo := NewTopicRepository()
	newsRepo := NewNewsRepository()

	item := &models.NewsItem{URL: "https://news.test/a", Title: "Article"}
	require.NoError(t, newsRepo.Create(ctx, item))

	topic := &models.Topic{Title: "From news", Hook: "Hook", NewsItemID: &item.ID}
	require.NoError(t, topicRepo.Create(ctx, topic))

	require.NoError(t, topicRepo.ClearNewsItemRef(ctx, item.ID))
	require.NoError(t, newsRepo.Delete(ctx, item.ID))

	got, err := topicRepo.GetByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.Nil(t, got.NewsItemID)
}

func TestTopicRepository_ListByStatus(t *testing.T) {
	ctx, _ := scopedContext(t)
	repo := NewTopicRepository()

	for _, title := range []string{"a", "b"} {
		require.NoError(t, repo.Create(ctx, &models.Topic{Title: title, Hook: "h"}))
	}
	shortlisted := &models.Topic{Title: "c", Hook: "h"}
	require.NoError(t, repo.Create(ctx, shortlisted))
	require.NoError(t, repo.UpdateStatus(ctx, shortlisted.ID, models.TopicStatusShortlisted))

	status := models.TopicStatusShortlisted
	topics, err := repo.List(ctx, &status)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, shortlisted.ID, topics[0].ID)

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSettingsRepository_Upsert(t *testing.T) {
	ctx, _ := scopedContext(t)
	repo := NewSettingsRepository()

	require.NoError(t, repo.Set(ctx, "brand_voice", "direct and warm"))
	require.NoError(t, repo.Set(ctx, "brand_voice", "playful"))

	value, err := repo.Get(ctx, "brand_voice")
	require.NoError(t, err)
	assert.Equal(t, "playful", value)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"brand_voice": "playful"}, all)

	require.NoError(t, repo.Delete(ctx, "brand_voice"))
	_, err = repo.Get(ctx, "brand_voice")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
