package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/models"
	"github.com/feedforge/feedforge-engine/pkg/repositories"
	"github.com/feedforge/feedforge-engine/pkg/storage"
)

// ContentService maintains the content entities and their cross-references.
// Deletions clear every inbound reference before removing the row; a failed
// clearing step aborts the delete so no dangling reference can survive.
type ContentService interface {
	// News items
	CreateNewsItem(ctx context.Context, item *models.NewsItem) error
	GetNewsItem(ctx context.Context, id uuid.UUID) (*models.NewsItem, error)
	ListNewsItems(ctx context.Context) ([]*models.NewsItem, error)
	DeleteNewsItem(ctx context.Context, id uuid.UUID) error

	// Topics
	CreateTopic(ctx context.Context, topic *models.Topic) error
	GetTopic(ctx context.Context, id uuid.UUID) (*models.Topic, error)
	ListTopics(ctx context.Context, status *models.TopicStatus) ([]*models.Topic, error)
	UpdateTopic(ctx context.Context, topic *models.Topic) error
	UpdateTopicStatus(ctx context.Context, id uuid.UUID, status models.TopicStatus) error
	ConvertTopicToDraft(ctx context.Context, topicID uuid.UUID) (*models.Draft, error)
	DeleteTopic(ctx context.Context, id uuid.UUID) error

	// Drafts
	CreateDraft(ctx context.Context, draft *models.Draft) error
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	ListDrafts(ctx context.Context, status *models.DraftStatus) ([]*models.Draft, error)
	UpdateDraft(ctx context.Context, draft *models.Draft) error
	UpdateDraftStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) error
	DeleteDraft(ctx context.Context, id uuid.UUID) error

	// Assets
	CreateAsset(ctx context.Context, asset *models.Asset) error
	GetAsset(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	ListAssets(ctx context.Context) ([]*models.Asset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
}

type contentService struct {
	newsRepo  repositories.NewsRepository
	topicRepo repositories.TopicRepository
	draftRepo repositories.DraftRepository
	assetRepo repositories.AssetRepository
	pubRepo   repositories.PublicationRepository
	store     ObjectStore
	bucket    string
	logger    *zap.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(
	newsRepo repositories.NewsRepository,
	topicRepo repositories.TopicRepository,
	draftRepo repositories.DraftRepository,
	assetRepo repositories.AssetRepository,
	pubRepo repositories.PublicationRepository,
	store ObjectStore,
	bucket string,
	logger *zap.Logger,
) ContentService {
	return &contentService{
		newsRepo:  newsRepo,
		topicRepo: topicRepo,
		draftRepo: draftRepo,
		assetRepo: assetRepo,
		pubRepo:   pubRepo,
		store:     store,
		bucket:    bucket,
		logger:    logger.Named("content"),
	}
}

var _ ContentService = (*contentService)(nil)

// News items

func (s *contentService) CreateNewsItem(ctx context.Context, item *models.NewsItem) error {
	if item.URL == "" || item.Title == "" {
		return fmt.Errorf("url and title are required")
	}
	return s.newsRepo.Create(ctx, item)
}

func (s *contentService) GetNewsItem(ctx context.Context, id uuid.UUID) (*models.NewsItem, error) {
	return s.newsRepo.GetByID(ctx, id)
}

func (s *contentService) ListNewsItems(ctx context.Context) ([]*models.NewsItem, error) {
	return s.newsRepo.List(ctx)
}

// DeleteNewsItem clears Topic.news_item_id references first; topics sourced
// from the item survive with their provenance link nulled.
func (s *contentService) DeleteNewsItem(ctx context.Context, id uuid.UUID) error {
	if err := s.topicRepo.ClearNewsItemRef(ctx, id); err != nil {
		return err
	}
	return s.newsRepo.Delete(ctx, id)
}

// Topics

func (s *contentService) CreateTopic(ctx context.Context, topic *models.Topic) error {
	if topic.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.topicRepo.Create(ctx, topic)
}

func (s *contentService) GetTopic(ctx context.Context, id uuid.UUID) (*models.Topic, error) {
	return s.topicRepo.GetByID(ctx, id)
}

func (s *contentService) ListTopics(ctx context.Context, status *models.TopicStatus) ([]*models.Topic, error) {
	return s.topicRepo.List(ctx, status)
}

func (s *contentService) UpdateTopic(ctx context.Context, topic *models.Topic) error {
	return s.topicRepo.Update(ctx, topic)
}

func (s *contentService) UpdateTopicStatus(ctx context.Context, id uuid.UUID, status models.TopicStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown topic status %q", apperrors.ErrInvalidTransition, status)
	}

	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !topic.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: topic %s -> %s", apperrors.ErrInvalidTransition, topic.Status, status)
	}

	return s.topicRepo.UpdateStatus(ctx, id, status)
}

// ConvertTopicToDraft creates a draft seeded from the topic, then archives
// the topic. The draft creation is the operation proper; a failed archive is
// reported as ErrArchivePending so the caller can retry, but the draft stands.
func (s *contentService) ConvertTopicToDraft(ctx context.Context, topicID uuid.UUID) (*models.Draft, error) {
	topic, err := s.topicRepo.GetByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic.Status == models.TopicStatusArchived {
		return nil, fmt.Errorf("%w: topic already archived", apperrors.ErrConflict)
	}

	body := topic.Hook
	if topic.Rationale != "" {
		if body != "" {
			body += "\n\n"
		}
		body += topic.Rationale
	}
	draft := &models.Draft{
		Title:   topic.Title,
		Body:    body,
		TopicID: &topic.ID,
		Status:  models.DraftStatusDraft,
	}
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, err
	}

	if err := s.topicRepo.UpdateStatus(ctx, topicID, models.TopicStatusArchived); err != nil {
		s.logger.Warn("topic archive failed after conversion",
			zap.String("topic_id", topicID.String()),
			zap.String("draft_id", draft.ID.String()),
			zap.Error(err))
		return draft, apperrors.ErrArchivePending
	}

	return draft, nil
}

// DeleteTopic clears Draft.topic_id references before removing the row. The
// append-only ledger keeps any entry that created this topic; only the
// entity row goes away.
func (s *contentService) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	if err := s.draftRepo.ClearTopicRef(ctx, id); err != nil {
		return err
	}
	return s.topicRepo.Delete(ctx, id)
}

// Drafts

func (s *contentService) CreateDraft(ctx context.Context, draft *models.Draft) error {
	if draft.Title == "" {
		return fmt.Errorf("title is required")
	}
	if draft.Status != "" && draft.Status != models.DraftStatusDraft {
		return fmt.Errorf("%w: drafts are created in status %q", apperrors.ErrInvalidTransition, models.DraftStatusDraft)
	}
	return s.draftRepo.Create(ctx, draft)
}

func (s *contentService) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	return s.draftRepo.GetByID(ctx, id)
}

func (s *contentService) ListDrafts(ctx context.Context, status *models.DraftStatus) ([]*models.Draft, error) {
	return s.draftRepo.List(ctx, status)
}

func (s *contentService) UpdateDraft(ctx context.Context, draft *models.Draft) error {
	return s.draftRepo.Update(ctx, draft)
}

func (s *contentService) UpdateDraftStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown draft status %q", apperrors.ErrInvalidTransition, status)
	}

	draft, err := s.draftRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !draft.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: draft %s -> %s", apperrors.ErrInvalidTransition, draft.Status, status)
	}

	return s.draftRepo.UpdateStatus(ctx, id, status)
}

// DeleteDraft clears Publication.draft_id back-references before removing
// the row. Publication snapshots survive the delete untouched.
func (s *contentService) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	if err := s.pubRepo.ClearDraftRef(ctx, id); err != nil {
		return err
	}
	return s.draftRepo.Delete(ctx, id)
}

// Assets

func (s *contentService) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if asset.URL == "" {
		return fmt.Errorf("url is required")
	}
	return s.assetRepo.Create(ctx, asset)
}

func (s *contentService) GetAsset(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	return s.assetRepo.GetByID(ctx, id)
}

func (s *contentService) ListAssets(ctx context.Context) ([]*models.Asset, error) {
	return s.assetRepo.List(ctx)
}

// DeleteAsset clears Draft.image_asset_id references, removes the backing
// storage object, then deletes the row. A failed reference clear aborts the
// whole delete; a failed storage remove is logged but does not block it,
// since an orphaned storage object is harmless while a dangling draft
// reference is not.
func (s *contentService) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	asset, err := s.assetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.draftRepo.ClearImageAsset(ctx, id); err != nil {
		return err
	}

	if s.store != nil {
		if path, ok := storage.PathFromURL(asset.URL, s.bucket); ok {
			if err := s.store.Remove(ctx, s.bucket, []string{path}); err != nil {
				s.logger.Warn("storage object removal failed",
					zap.String("asset_id", id.String()),
					zap.String("path", path),
					zap.Error(err))
			}
		}
	}

	if err := s.assetRepo.Delete(ctx, id); err != nil {
		// Reference clearing already ran; a vanished row is fine.
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}
