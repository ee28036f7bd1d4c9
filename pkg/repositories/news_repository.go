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

// NewsRepository persists researched news items.
type NewsRepository interface {
	Create(ctx context.Context, item *models.NewsItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.NewsItem, error)
	List(ctx context.Context) ([]*models.NewsItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type newsRepository struct{}

// NewNewsRepository creates a new NewsRepository.
func NewNewsRepository() NewsRepository {
	return &newsRepository{}
}

var _ NewsRepository = (*newsRepository)(nil)

const newsColumns = `id, owner_id, url, title, summary, source, tags, published_at, created_at`

func (r *newsRepository) Create(ctx context.Context, item *models.NewsItem) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.OwnerID = scope.UserID
	item.CreatedAt = time.Now()

	query := `
		INSERT INTO news_items (id, owner_id, url, title, summary, source, tags, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := scope.DB.Exec(ctx, query,
		item.ID, item.OwnerID, item.URL, item.Title, item.Summary,
		item.Source, textArray(item.Tags), item.PublishedAt, item.CreatedAt,
	)
	if err != nil {
		return &apperrors.PersistenceError{Op: "create news item", Cause: err}
	}

	return nil
}

func (r *newsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.NewsItem, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT ` + newsColumns + `
		FROM news_items
		WHERE id = $1 AND owner_id = $2`

	item, err := scanNewsRow(scope.DB.QueryRow(ctx, query, id, scope.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, &apperrors.PersistenceError{Op: "get news item", Cause: err}
	}
	return item, nil
}

func (r *newsRepository) List(ctx context.Context) ([]*models.NewsItem, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT ` + newsColumns + `
		FROM news_items
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := scope.DB.Query(ctx, query, scope.UserID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list news items", Cause: err}
	}
	defer rows.Close()

	var items []*models.NewsItem
	for rows.Next() {
		item, err := scanNewsRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

func (r *newsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	result, err := scope.DB.Exec(ctx, `DELETE FROM news_items WHERE id = $1 AND owner_id = $2`, id, scope.UserID)
	if err != nil {
		return &apperrors.PersistenceError{Op: "delete news item", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanNewsRow(row pgx.Row) (*models.NewsItem, error) {
	var item models.NewsItem
	err := row.Scan(
		&item.ID, &item.OwnerID, &item.URL, &item.Title, &item.Summary,
		&item.Source, &item.Tags, &item.PublishedAt, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
