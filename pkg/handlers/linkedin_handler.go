package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/services"
)

const oauthSessionName = "feedforge_oauth"

// LinkedInHandler handles the OAuth connect flow and connection status. The
// state parameter rides in a session cookie between connect and callback.
type LinkedInHandler struct {
	linkedin services.LinkedInService
	store    *sessions.CookieStore
	logger   *zap.Logger
}

// NewLinkedInHandler creates a new LinkedInHandler. sessionSecret keys the
// state cookie.
func NewLinkedInHandler(linkedin services.LinkedInService, sessionSecret string, logger *zap.Logger) *LinkedInHandler {
	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.Options = &sessions.Options{
		Path:     "/api/linkedin",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &LinkedInHandler{
		linkedin: linkedin,
		store:    store,
		logger:   logger.Named("linkedin_handler"),
	}
}

// RegisterRoutes registers LinkedIn routes on the given mux.
func (h *LinkedInHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/linkedin/connect", wrap(h.Connect))
	mux.HandleFunc("GET /api/linkedin/callback", wrap(h.Callback))
	mux.HandleFunc("GET /api/linkedin/status", wrap(h.Status))
	mux.HandleFunc("DELETE /api/linkedin/connection", wrap(h.Disconnect))
}

// Connect handles GET /api/linkedin/connect: stores a random state in the
// session cookie and redirects to LinkedIn's authorization page.
func (h *LinkedInHandler) Connect(w http.ResponseWriter, r *http.Request) {
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to generate state")
		return
	}
	state := hex.EncodeToString(stateBytes)

	session, _ := h.store.Get(r, oauthSessionName)
	session.Values["state"] = state
	if err := session.Save(r, w); err != nil {
		h.logger.Error("Failed to save oauth session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to persist state")
		return
	}

	http.Redirect(w, r, h.linkedin.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /api/linkedin/callback: verifies the state cookie and
// completes the token exchange.
func (h *LinkedInHandler) Callback(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, oauthSessionName)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_state", "Missing OAuth session")
		return
	}

	expected, _ := session.Values["state"].(string)
	if expected == "" || r.URL.Query().Get("state") != expected {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_state", "State mismatch")
		return
	}

	// One-shot state: clear it regardless of the exchange outcome.
	session.Options.MaxAge = -1
	_ = session.Save(r, w)

	code := r.URL.Query().Get("code")
	if code == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Missing authorization code")
		return
	}

	if err := h.linkedin.CompleteConnect(r.Context(), code); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "connected"}); err != nil {
		h.logger.Error("Failed to encode connect result", zap.Error(err))
	}
}

// Status handles GET /api/linkedin/status.
func (h *LinkedInHandler) Status(w http.ResponseWriter, r *http.Request) {
	connected := h.linkedin.Connected(r.Context())
	if err := WriteJSON(w, http.StatusOK, map[string]bool{"connected": connected}); err != nil {
		h.logger.Error("Failed to encode status", zap.Error(err))
	}
}

// Disconnect handles DELETE /api/linkedin/connection.
func (h *LinkedInHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.linkedin.Disconnect(r.Context()); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
