package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/models"
	"github.com/feedforge/feedforge-engine/pkg/repositories"
)

// PublishOptions controls one publish invocation.
type PublishOptions struct {
	// Manual records the publication without calling LinkedIn; the user
	// posted by hand and is logging it here.
	Manual bool
	// PostURL optionally records where a manual post went.
	PostURL *string
}

// Publisher is the LinkedIn surface the publish flow needs.
type Publisher interface {
	PublishContent(ctx context.Context, content *models.PublicationContent) (postID, postURL string, err error)
}

// PublishService snapshots a draft into an immutable publication record and
// optionally pushes it to LinkedIn first.
type PublishService interface {
	Publish(ctx context.Context, draftID uuid.UUID, opts PublishOptions) (*models.Publication, error)
	GetPublication(ctx context.Context, id uuid.UUID) (*models.Publication, error)
	ListPublications(ctx context.Context) ([]*models.Publication, error)
	UpdateMetrics(ctx context.Context, id uuid.UUID, likes, comments, impressions int) error
}

type publishService struct {
	draftRepo repositories.DraftRepository
	assetRepo repositories.AssetRepository
	pubRepo   repositories.PublicationRepository
	publisher Publisher // nil when LinkedIn is not configured
	logger    *zap.Logger
}

// NewPublishService creates a new PublishService. publisher may be nil, in
// which case only manual publishes are accepted.
func NewPublishService(
	draftRepo repositories.DraftRepository,
	assetRepo repositories.AssetRepository,
	pubRepo repositories.PublicationRepository,
	publisher Publisher,
	logger *zap.Logger,
) PublishService {
	return &publishService{
		draftRepo: draftRepo,
		assetRepo: assetRepo,
		pubRepo:   pubRepo,
		publisher: publisher,
		logger:    logger.Named("publish"),
	}
}

var _ PublishService = (*publishService)(nil)

// Publish deep-copies the draft's current content into a publication
// snapshot, optionally posts it to LinkedIn, records the publication, and
// moves the draft to published. Later edits to the draft never show through
// the stored snapshot.
func (s *publishService) Publish(ctx context.Context, draftID uuid.UUID, opts PublishOptions) (*models.Publication, error) {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !draft.Status.CanTransitionTo(models.DraftStatusPublished) {
		return nil, fmt.Errorf("%w: draft %s -> %s", apperrors.ErrInvalidTransition, draft.Status, models.DraftStatusPublished)
	}

	var imageURL *string
	if draft.ImageAssetID != nil {
		asset, err := s.assetRepo.GetByID(ctx, *draft.ImageAssetID)
		if err != nil {
			return nil, fmt.Errorf("resolve draft image: %w", err)
		}
		imageURL = &asset.URL
	}

	content := models.SnapshotFromDraft(draft, imageURL)

	pub := &models.Publication{
		DraftID:         &draft.ID,
		FinalContent:    content,
		IsManualPublish: opts.Manual,
		PostURL:         opts.PostURL,
	}

	if !opts.Manual {
		if s.publisher == nil {
			return nil, fmt.Errorf("linkedin publishing is not configured")
		}
		postID, postURL, err := s.publisher.PublishContent(ctx, &content)
		if err != nil {
			// Provider failure before any local write; the draft stays as it
			// was and no publication exists.
			return nil, err
		}
		pub.PostURL = &postURL
		s.logger.Info("published to linkedin",
			zap.String("draft_id", draft.ID.String()),
			zap.String("post_id", postID))
	}

	if err := s.pubRepo.Create(ctx, pub); err != nil {
		return nil, err
	}

	if err := s.draftRepo.UpdateStatus(ctx, draft.ID, models.DraftStatusPublished); err != nil {
		// The publication stands; the status lag is visible and retryable
		// through the normal status endpoint.
		s.logger.Warn("draft status update failed after publish",
			zap.String("draft_id", draft.ID.String()),
			zap.String("publication_id", pub.ID.String()),
			zap.Error(err))
	}

	return pub, nil
}

func (s *publishService) GetPublication(ctx context.Context, id uuid.UUID) (*models.Publication, error) {
	return s.pubRepo.GetByID(ctx, id)
}

func (s *publishService) ListPublications(ctx context.Context) ([]*models.Publication, error) {
	return s.pubRepo.List(ctx)
}

// UpdateMetrics writes the engagement counters, the only mutable publication
// fields.
func (s *publishService) UpdateMetrics(ctx context.Context, id uuid.UUID, likes, comments, impressions int) error {
	if likes < 0 || comments < 0 || impressions < 0 {
		return fmt.Errorf("metrics must be non-negative")
	}
	return s.pubRepo.UpdateMetrics(ctx, id, likes, comments, impressions)
}
