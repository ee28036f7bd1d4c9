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

// AssetRepository persists media asset records.
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	List(ctx context.Context) ([]*models.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type assetRepository struct{}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository() AssetRepository {
	return &assetRepository{}
}

var _ AssetRepository = (*assetRepository)(nil)

const assetColumns = `id, owner_id, url, prompt, is_ai_generated, metadata, created_at`

func (r *assetRepository) Create(ctx context.Context, asset *models.Asset) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	asset.OwnerID = scope.UserID
	asset.CreatedAt = time.Now()

	var metadataJSON []byte
	if asset.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(asset.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	query := `
		INSERT INTO assets (id, owner_id, url, prompt, is_ai_generated, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := scope.DB.Exec(ctx, query,
		asset.ID, asset.OwnerID, asset.URL, asset.Prompt,
		asset.IsAIGenerated, metadataJSON, asset.CreatedAt,
	)
	if err != nil {
		return &apperrors.PersistenceError{Op: "create asset", Cause: err}
	}

	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE id = $1 AND owner_id = $2`

	asset, err := scanAssetRow(scope.DB.QueryRow(ctx, query, id, scope.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, &apperrors.PersistenceError{Op: "get asset", Cause: err}
	}
	return asset, nil
}

func (r *assetRepository) List(ctx context.Context) ([]*models.Asset, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := scope.DB.Query(ctx, query, scope.UserID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list assets", Cause: err}
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		asset, err := scanAssetRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return assets, nil
}

func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	result, err := scope.DB.Exec(ctx, `DELETE FROM assets WHERE id = $1 AND owner_id = $2`, id, scope.UserID)
	if err != nil {
		return &apperrors.PersistenceError{Op: "delete asset", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanAssetRow(row pgx.Row) (*models.Asset, error) {
	var asset models.Asset
	var metadataJSON []byte

	err := row.Scan(
		&asset.ID, &asset.OwnerID, &asset.URL, &asset.Prompt,
		&asset.IsAIGenerated, &metadataJSON, &asset.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &asset.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &asset, nil
}
