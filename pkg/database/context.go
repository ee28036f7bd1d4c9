package database

import (
	"context"

	"github.com/google/uuid"
)

// OwnerScope carries the database handle and the authenticated row owner for
// one request. Every repository query filters by UserID; there is no
// cross-owner access path.
type OwnerScope struct {
	DB     Querier
	UserID uuid.UUID
}

type contextKey string

// ownerScopeKey is the context key for storing the owner scope.
const ownerScopeKey contextKey = "ownerScope"

// GetScope retrieves the owner scope from context.
// Returns nil and false if not present.
func GetScope(ctx context.Context) (*OwnerScope, bool) {
	scope, ok := ctx.Value(ownerScopeKey).(*OwnerScope)
	return scope, ok
}

// SetScope stores the owner scope in context.
func SetScope(ctx context.Context, scope *OwnerScope) context.Context {
	return context.WithValue(ctx, ownerScopeKey, scope)
}
