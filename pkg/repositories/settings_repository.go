package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/database"
)

// SettingsRepository stores per-owner key/value settings such as brand voice,
// audience description, and default language.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type settingsRepository struct{}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository() SettingsRepository {
	return &settingsRepository{}
}

var _ SettingsRepository = (*settingsRepository)(nil)

func (r *settingsRepository) Get(ctx context.Context, key string) (string, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return "", fmt.Errorf("no owner scope in context")
	}

	var value string
	query := `SELECT value FROM settings WHERE owner_id = $1 AND key = $2`
	err := scope.DB.QueryRow(ctx, query, scope.UserID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", &apperrors.PersistenceError{Op: "get setting", Cause: err}
	}
	return value, nil
}

func (r *settingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	rows, err := scope.DB.Query(ctx, `SELECT key, value FROM settings WHERE owner_id = $1`, scope.UserID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list settings", Cause: err}
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return settings, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	query := `
		INSERT INTO settings (owner_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (owner_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	if _, err := scope.DB.Exec(ctx, query, scope.UserID, key, value); err != nil {
		return &apperrors.PersistenceError{Op: "set setting", Cause: err}
	}
	return nil
}

func (r *settingsRepository) Delete(ctx context.Context, key string) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	result, err := scope.DB.Exec(ctx, `DELETE FROM settings WHERE owner_id = $1 AND key = $2`, scope.UserID, key)
	if err != nil {
		return &apperrors.PersistenceError{Op: "delete setting", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
