// Package repositories provides data access for content entities and the
// generation ledger. Every query is scoped to the request's owner via the
// database.OwnerScope in context.
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/database"
	"github.com/feedforge/feedforge-engine/pkg/models"
)

// LedgerRepository persists the append-only generation audit trail.
// Entries are write-once; LinkEntity is the only post-creation mutation and
// touches nothing but the two back-reference columns.
type LedgerRepository interface {
	Append(ctx context.Context, entry *models.LedgerEntry) error
	LinkEntity(ctx context.Context, ledgerID uuid.UUID, entityType string, entityID uuid.UUID) error
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.LedgerEntry, error)
	ListRecent(ctx context.Context, limit int) ([]*models.LedgerEntry, error)
}

type ledgerRepository struct{}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository() LedgerRepository {
	return &ledgerRepository{}
}

var _ LedgerRepository = (*ledgerRepository)(nil)

const ledgerColumns = `id, owner_id, generation_type, inputs, system_prompt, user_prompt,
	       model, raw_output, parsed_output, token_usage,
	       created_entity_type, created_entity_id, created_at`

func (r *ledgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.OwnerID = scope.UserID
	entry.CreatedAt = time.Now()

	var inputsJSON, usageJSON []byte
	var err error
	if entry.Inputs != nil {
		inputsJSON, err = json.Marshal(entry.Inputs)
		if err != nil {
			return fmt.Errorf("failed to marshal inputs: %w", err)
		}
	}
	if entry.TokenUsage != nil {
		usageJSON, err = json.Marshal(entry.TokenUsage)
		if err != nil {
			return fmt.Errorf("failed to marshal token_usage: %w", err)
		}
	}

	query := `
		INSERT INTO generation_ledger (
			id, owner_id, generation_type, inputs, system_prompt, user_prompt,
			model, raw_output, parsed_output, token_usage,
			created_entity_type, created_entity_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = scope.DB.Exec(ctx, query,
		entry.ID, entry.OwnerID, entry.GenerationType, inputsJSON,
		entry.SystemPrompt, entry.UserPrompt, entry.Model,
		entry.RawOutput, []byte(entry.ParsedOutput), usageJSON,
		entry.CreatedEntityType, entry.CreatedEntityID, entry.CreatedAt,
	)
	if err != nil {
		return &apperrors.PersistenceError{Op: "append ledger entry", Cause: err}
	}

	return nil
}

func (r *ledgerRepository) LinkEntity(ctx context.Context, ledgerID uuid.UUID, entityType string, entityID uuid.UUID) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	query := `
		UPDATE generation_ledger
		SET created_entity_type = $3, created_entity_id = $4
		WHERE id = $1 AND owner_id = $2`

	result, err := scope.DB.Exec(ctx, query, ledgerID, scope.UserID, entityType, entityID)
	if err != nil {
		return &apperrors.PersistenceError{Op: "link ledger entity", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *ledgerRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.LedgerEntry, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT ` + ledgerColumns + `
		FROM generation_ledger
		WHERE owner_id = $1 AND created_entity_id = $2
		ORDER BY created_at DESC`

	rows, err := scope.DB.Query(ctx, query, scope.UserID, entityID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list ledger by entity", Cause: err}
	}
	defer rows.Close()

	return scanLedgerRows(rows)
}

func (r *ledgerRepository) ListRecent(ctx context.Context, limit int) ([]*models.LedgerEntry, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT ` + ledgerColumns + `
		FROM generation_ledger
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := scope.DB.Query(ctx, query, scope.UserID, limit)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list recent ledger", Cause: err}
	}
	defer rows.Close()

	return scanLedgerRows(rows)
}

func scanLedgerRows(rows pgx.Rows) ([]*models.LedgerEntry, error) {
	var entries []*models.LedgerEntry

	for rows.Next() {
		entry, err := scanLedgerRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

func scanLedgerRow(row pgx.Row) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	var inputsJSON, parsedJSON, usageJSON []byte

	err := row.Scan(
		&entry.ID, &entry.OwnerID, &entry.GenerationType, &inputsJSON,
		&entry.SystemPrompt, &entry.UserPrompt, &entry.Model,
		&entry.RawOutput, &parsedJSON, &usageJSON,
		&entry.CreatedEntityType, &entry.CreatedEntityID, &entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger row: %w", err)
	}

	if len(inputsJSON) > 0 {
		if err := json.Unmarshal(inputsJSON, &entry.Inputs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal inputs: %w", err)
		}
	}
	if len(parsedJSON) > 0 {
		entry.ParsedOutput = json.RawMessage(parsedJSON)
	}
	if len(usageJSON) > 0 {
		entry.TokenUsage = &models.TokenUsage{}
		if err := json.Unmarshal(usageJSON, entry.TokenUsage); err != nil {
			return nil, fmt.Errorf("failed to unmarshal token_usage: %w", err)
		}
	}

	return &entry, nil
}
