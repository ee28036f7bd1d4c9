package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/database"
	"github.com/feedforge/feedforge-engine/pkg/models"
)

// PublicationRepository persists publication records. The final_content
// snapshot is written once at create time; only engagement metrics and the
// draft back-reference change afterwards.
type PublicationRepository interface {
	Create(ctx context.Context, pub *models.Publication) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Publication, error)
	List(ctx context.Context) ([]*models.Publication, error)
	UpdateMetrics(ctx context.Context, id uuid.UUID, likes, comments, impressions int) error
	ClearDraftRef(ctx context.Context, draftID uuid.UUID) error
}

type publicationRepository struct{}

// NewPublicationRepository creates a new PublicationRepository.
func NewPublicationRepository() PublicationRepository {
	return &publicationRepository{}
}

var _ PublicationRepository = (*publicationRepository)(nil)

const publicationColumns = `id, owner_id, draft_id, final_content, post_url,
	       is_manual_publish, likes, comments, impressions, published_at`

func (r *publicationRepository) Create(ctx context.Context, pub *models.Publication) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	if pub.ID == uuid.Nil {
		pub.ID = uuid.New()
	}
	pub.OwnerID = scope.UserID
	if pub.PublishedAt.IsZero() {
		pub.PublishedAt = time.Now()
	}

	contentJSON, err := json.Marshal(pub.FinalContent)
	if err != nil {
		return fmt.Errorf("failed to marshal final_content: %w", err)
	}

	query := `
		INSERT INTO publications (id, owner_id, draft_id, final_content, post_url,
			is_manual_publish, likes, comments, impressions, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = scope.DB.Exec(ctx, query,
		pub.ID, pub.OwnerID, pub.DraftID, contentJSON, pub.PostURL,
		pub.IsManualPublish, pub.Likes, pub.Comments, pub.Impressions, pub.PublishedAt,
	)
	if err != nil {
		return &apperrors.PersistenceError{Op: "create publication", Cause: err}
	}

	return nil
}

func (r *publicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Publication, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT ` + publicationColumns + `
		FROM publications
		WHERE id = $1 AND owner_id = $2`

	pub, err := scanPublicationRow(scope.DB.QueryRow(ctx, query, id, scope.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, &apperrors.PersistenceError{Op: "get publication", Cause: err}
	}
	return pub, nil
}

func (r *publicationRepository) List(ctx context.Context) ([]*models.Publication, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT ` + publicationColumns + `
		FROM publications
		WHERE owner_id = $1
		ORDER BY published_at DESC`

	rows, err := scope.DB.Query(ctx, query, scope.UserID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list publications", Cause: err}
	}
	defer rows.Close()

	var pubs []*models.Publication
	for rows.Next() {
		pub, err := scanPublicationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publication row: %w", err)
		}
		pubs = append(pubs, pub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return pubs, nil
}

func (r *publicationRepository) UpdateMetrics(ctx context.Context, id uuid.UUID, likes, comments, impressions int) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	query := `
		UPDATE publications
		SET likes = $3, comments = $4, impressions = $5
		WHERE id = $1 AND owner_id = $2`

	result, err := scope.DB.Exec(ctx, query, id, scope.UserID, likes, comments, impressions)
	if err != nil {
		return &apperrors.PersistenceError{Op: "update publication metrics", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// ClearDraftRef nulls draft_id on every publication snapshotted from the
// given draft. Run before deleting the draft; the snapshot itself stays.
func (r *publicationRepository) ClearDraftRef(ctx context.Context, draftID uuid.UUID) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	query := `
		UPDATE publications
		SET draft_id = NULL
		WHERE draft_id = $1 AND owner_id = $2`

	if _, err := scope.DB.Exec(ctx, query, draftID, scope.UserID); err != nil {
		return &apperrors.ReferentialCleanupError{Table: "publications", Column: "draft_id", Cause: err}
	}
	return nil
}

func scanPublicationRow(row pgx.Row) (*models.Publication, error) {
	var pub models.Publication
	var contentJSON []byte

	err := row.Scan(
		&pub.ID, &pub.OwnerID, &pub.DraftID, &contentJSON, &pub.PostURL,
		&pub.IsManualPublish, &pub.Likes, &pub.Comments, &pub.Impressions, &pub.PublishedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(contentJSON, &pub.FinalContent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal final_content: %w", err)
	}

	return &pub, nil
}
