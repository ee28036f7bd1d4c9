package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/database"
	"github.com/feedforge/feedforge-engine/pkg/models"
)

// TokenRepository stores LinkedIn OAuth tokens, one row per user.
type TokenRepository interface {
	GetByUser(ctx context.Context) (*models.LinkedInToken, error)
	Upsert(ctx context.Context, token *models.LinkedInToken) error
	Delete(ctx context.Context) error
}

type tokenRepository struct{}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository() TokenRepository {
	return &tokenRepository{}
}

var _ TokenRepository = (*tokenRepository)(nil)

func (r *tokenRepository) GetByUser(ctx context.Context) (*models.LinkedInToken, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no owner scope in context")
	}

	query := `
		SELECT user_id, access_token, refresh_token, expires_at, member_urn, created_at, updated_at
		FROM linkedin_tokens
		WHERE user_id = $1`

	var token models.LinkedInToken
	err := scope.DB.QueryRow(ctx, query, scope.UserID).Scan(
		&token.UserID, &token.AccessToken, &token.RefreshToken,
		&token.ExpiresAt, &token.MemberURN, &token.CreatedAt, &token.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, &apperrors.PersistenceError{Op: "get linkedin token", Cause: err}
	}
	return &token, nil
}

func (r *tokenRepository) Upsert(ctx context.Context, token *models.LinkedInToken) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	token.UserID = scope.UserID
	token.UpdatedAt = time.Now()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = token.UpdatedAt
	}

	query := `
		INSERT INTO linkedin_tokens (user_id, access_token, refresh_token, expires_at, member_urn, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id)
		DO UPDATE SET access_token = EXCLUDED.access_token,
		              refresh_token = EXCLUDED.refresh_token,
		              expires_at = EXCLUDED.expires_at,
		              member_urn = EXCLUDED.member_urn,
		              updated_at = EXCLUDED.updated_at`

	_, err := scope.DB.Exec(ctx, query,
		token.UserID, token.AccessToken, token.RefreshToken,
		token.ExpiresAt, token.MemberURN, token.CreatedAt, token.UpdatedAt,
	)
	if err != nil {
		return &apperrors.PersistenceError{Op: "upsert linkedin token", Cause: err}
	}
	return nil
}

func (r *tokenRepository) Delete(ctx context.Context) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no owner scope in context")
	}

	result, err := scope.DB.Exec(ctx, `DELETE FROM linkedin_tokens WHERE user_id = $1`, scope.UserID)
	if err != nil {
		return &apperrors.PersistenceError{Op: "delete linkedin token", Cause: err}
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
