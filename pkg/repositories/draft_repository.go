package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/database"
	"github.com/feedforge/feedforge-engine/pkg/models"
)

// DraftRepository persists editable post drafts.
type DraftRepository interface {
	Create(ctx context.Context, draft *models.Draft) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	List(ctx context.Context, status *models.DraftStatus) ([]*models.Draft, error)
	Update(ctx context.Context, draft *models.Draft) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) error
	ClearImageAsset(ctx context.Context, assetID uuid.UUID) error
	ClearTopicRef(ctx context.Context, topicID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type draftRepository struct{}

// NewDraftRepository creates a new DraftRepository.
func NewDraftRepository() DraftRepository {
	return &draftRepository{}
}

var _ DraftRepository = (*draftRepository)(nil)

const draftColumns = `id, owner_id, title, body,
	       hashtags_broad, hashtags_niche, hashtags_trending,
	       image_description, image_asset_id, topic_id,
	       language, status, created_at, updated_at`

func (r *draftRepository) Create(ctx context.Context, draft *models.Draft) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	draft.OwnerID = scope.UserID
	if draft.Status == "" {
		draft.Status = models.DraftStatusDraft
	}
	if draft.Language == "" {
		draft.Language = "en"
	}
	now := time.Now()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	query := `
		INSERT INTO drafts (id, owner_id, title, body,
			hashtags_broad, hashtags_niche, hashtags_trending,
			image_description, image_asset_id, topic_id,
			language, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := scope.DB.Exec(ctx, query,
		draft.ID, draft.OwnerID, draft.Title, draft.Body,
		textArray(draft.HashtagsBroad), textArray(draft.HashtagsNiche), textArray(draft.HashtagsTrending),
		draft.ImageDescription, draft.ImageAssetID, draft.TopicID,
		draft.Language, draft.Status, draft.CreatedAt, draft.UpdatedAt,
	)
	if err != nil {
		return &apperrors.PersistenceError{Op: "create draft", Cause: err}
	}

	return nil
}

func (r *draftRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT ` + draftColumns + `
		FROM drafts
		WHERE id = $1 AND owner_id = $2`

	draft, err := scanDraftRow(scope.DB.QueryRow(ctx, query, id, scope.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, &apperrors.PersistenceError{Op: "get draft", Cause: err}
	}
	return draft, nil
}

func (r *draftRepository) List(ctx context.Context, status *models.DraftStatus) ([]*models.Draft, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT ` + draftColumns + `
		FROM drafts
		WHERE owner_id = $1`
	args := []any{scope.UserID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := scope.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list drafts", Cause: err}
	}
	defer rows.Close()

	var drafts []*models.Draft
	for rows.Next() {
		draft, err := scanDraftRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		drafts = append(drafts, draft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return drafts, nil
}

// Update writes every editable field of the draft. Status is deliberately
// excluded; transitions go through UpdateStatus.
func (r *draftRepository) Update(ctx context.Context, draft *models.Draft) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	draft.UpdatedAt = time.Now()

	query := `
		UPDATE drafts
		SET title = $3, body = $4,
		    hashtags_broad = $5, hashtags_niche = $6, hashtags_trending = $7,
		    image_description = $8, image_asset_id = $9, topic_id = $10,
		    language = $11, updated_at = $12
		WHERE id = $1 AND owner_id = $2`

	result, err := scope.DB.Exec(ctx, query,
		draft.ID, scope.UserID, draft.Title, draft.Body,
		textArray(draft.HashtagsBroad), textArray(draft.HashtagsNiche), textArray(draft.HashtagsTrending),
		draft.ImageDescription, draft.ImageAssetID, draft.TopicID,
		draft.Language, draft.UpdatedAt,
	)
	if err != nil {
		return &apperrors.PersistenceError{Op: "update draft", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *draftRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	query := `
		UPDATE drafts
		SET status = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2`

	result, err := scope.DB.Exec(ctx, query, id, scope.UserID, status)
	if err != nil {
		return &apperrors.PersistenceError{Op: "update draft status", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// ClearImageAsset nulls image_asset_id on every draft using the given asset.
// Run before deleting the asset itself.
func (r *draftRepository) ClearImageAsset(ctx context.Context, assetID uuid.UUID) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	query := `
		UPDATE drafts
		SET image_asset_id = NULL, updated_at = now()
		WHERE image_asset_id = $1 AND owner_id = $2`

	if _, err := scope.DB.Exec(ctx, query, assetID, scope.UserID); err != nil {
		return &apperrors.ReferentialCleanupError{Table: "drafts", Column: "image_asset_id", Cause: err}
	}
	return nil
}

// ClearTopicRef nulls topic_id on every draft converted from the given topic.
// Run before deleting the topic itself.
func (r *draftRepository) ClearTopicRef(ctx context.Context, topicID uuid.UUID) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	query := `
		UPDATE drafts
		SET topic_id = NULL, updated_at = now()
		WHERE topic_id = $1 AND owner_id = $2`

	if _, err := scope.DB.Exec(ctx, query, topicID, scope.UserID); err != nil {
		return &apperrors.ReferentialCleanupError{Table: "drafts", Column: "topic_id", Cause: err}
	}
	return nil
}

func (r *draftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	result, err := scope.DB.Exec(ctx, `DELETE FROM drafts WHERE id = $1 AND owner_id = $2`, id, scope.UserID)
	if err != nil {
		return &apperrors.PersistenceError{Op: "delete draft", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanDraftRow(row pgx.Row) (*models.Draft, error) {
	var draft models.Draft
	err := row.Scan(
		&draft.ID, &draft.OwnerID, &draft.Title, &draft.Body,
		&draft.HashtagsBroad, &draft.HashtagsNiche, &draft.HashtagsTrending,
		&draft.ImageDescription, &draft.ImageAssetID, &draft.TopicID,
		&draft.Language, &draft.Status, &draft.CreatedAt, &draft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// textArray keeps NOT NULL text[] columns happy when the slice is nil.
func textArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
