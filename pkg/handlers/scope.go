package handlers

import (
	"net/http"

	"github.com/feedforge/feedforge-engine/pkg/auth"
	"github.com/feedforge/feedforge-engine/pkg/database"
)

// WithOwnerScope builds the per-request database scope from the
// authenticated user id. Must run after auth middleware.
func WithOwnerScope(db *database.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserID(r.Context())
		if !ok {
			_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "No authenticated user")
			return
		}
		ctx := database.SetScope(r.Context(), &database.OwnerScope{DB: db.Pool, UserID: userID})
		next(w, r.WithContext(ctx))
	}
}
