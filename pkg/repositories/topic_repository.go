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

// TopicRepository persists candidate content topics.
type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Topic, error)
	List(ctx context.Context, status *models.TopicStatus) ([]*models.Topic, error)
	Update(ctx context.Context, topic *models.Topic) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.TopicStatus) error
	ClearNewsItemRef(ctx context.Context, newsItemID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type topicRepository struct{}

// NewTopicRepository creates a new TopicRepository.
func NewTopicRepository() TopicRepository {
	return &topicRepository{}
}

var _ TopicRepository = (*topicRepository)(nil)

const topicColumns = `id, owner_id, title, hook, rationale, tags, status,
	       ledger_entry_id, news_item_id, created_at, updated_at`

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	if topic.ID == uuid.Nil {
		topic.ID = uuid.New()
	}
	topic.OwnerID = scope.UserID
	if topic.Status == "" {
		topic.Status = models.TopicStatusNew
	}
	now := time.Now()
	topic.CreatedAt = now
	topic.UpdatedAt = now

	query := `
		INSERT INTO topics (id, owner_id, title, hook, rationale, tags, status,
			ledger_entry_id, news_item_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := scope.DB.Exec(ctx, query,
		topic.ID, topic.OwnerID, topic.Title, topic.Hook, topic.Rationale,
		textArray(topic.Tags), topic.Status, topic.LedgerEntryID, topic.NewsItemID,
		topic.CreatedAt, topic.UpdatedAt,
	)
	if err != nil {
		return &apperrors.PersistenceError{Op: "create topic", Cause: err}
	}

	return nil
}

func (r *topicRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Topic, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT ` + topicColumns + `
		FROM topics
		WHERE id = $1 AND owner_id = $2`

	topic, err := scanTopicRow(scope.DB.QueryRow(ctx, query, id, scope.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, &apperrors.PersistenceError{Op: "get topic", Cause: err}
	}
	return topic, nil
}

func (r *topicRepository) List(ctx context.Context, status *models.TopicStatus) ([]*models.Topic, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT ` + topicColumns + `
		FROM topics
		WHERE owner_id = $1`
	args := []any{scope.UserID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := scope.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list topics", Cause: err}
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		topic, err := scanTopicRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return topics, nil
}

func (r *topicRepository) Update(ctx context.Context, topic *models.Topic) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	topic.UpdatedAt = time.Now()

	query := `
		UPDATE topics
		SET title = $3, hook = $4, rationale = $5, tags = $6, updated_at = $7
		WHERE id = $1 AND owner_id = $2`

	result, err := scope.DB.Exec(ctx, query,
		topic.ID, scope.UserID, topic.Title, topic.Hook, topic.Rationale,
		textArray(topic.Tags), topic.UpdatedAt,
	)
	if err != nil {
		return &apperrors.PersistenceError{Op: "update topic", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *topicRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TopicStatus) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	query := `
		UPDATE topics
		SET status = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2`

	result, err := scope.DB.Exec(ctx, query, id, scope.UserID, status)
	if err != nil {
		return &apperrors.PersistenceError{Op: "update topic status", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// ClearNewsItemRef nulls the news_item_id on every topic pointing at the
// given news item. Run before deleting the news item itself.
func (r *topicRepository) ClearNewsItemRef(ctx context.Context, newsItemID uuid.UUID) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	query := `
		UPDATE topics
		SET news_item_id = NULL, updated_at = now()
		WHERE news_item_id = $1 AND owner_id = $2`

	if _, err := scope.DB.Exec(ctx, query, newsItemID, scope.UserID); err != nil {
		return &apperrors.ReferentialCleanupError{Table: "topics", Column: "news_item_id", Cause: err}
	}
	return nil
}

func (r *topicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	result, err := scope.DB.Exec(ctx, `DELETE FROM topics WHERE id = $1 AND owner_id = $2`, id, scope.UserID)
	if err != nil {
		return &apperrors.PersistenceError{Op: "delete topic", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanTopicRow(row pgx.Row) (*models.Topic, error) {
	var topic models.Topic
	err := row.Scan(
		&topic.ID, &topic.OwnerID, &topic.Title, &topic.Hook, &topic.Rationale,
		&topic.Tags, &topic.Status, &topic.LedgerEntryID, &topic.NewsItemID,
		&topic.CreatedAt, &topic.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &topic, nil
}
