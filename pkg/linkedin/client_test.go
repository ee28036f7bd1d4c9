package linkedin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(&Config{
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURL:  "https://app.example.com/api/linkedin/callback",
		AuthBaseURL:  srv.URL,
		APIBaseURL:   srv.URL,
	}, zap.NewNop())
	return client, srv
}

func TestAuthCodeURL(t *testing.T) {
	client := NewClient(&Config{ClientID: "cid", RedirectURL: "https://cb"}, zap.NewNop())

	raw := client.AuthCodeURL("state-xyz")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/oauth/v2/authorization", u.Path)
	assert.Equal(t, "cid", u.Query().Get("client_id"))
	assert.Equal(t, "state-xyz", u.Query().Get("state"))
	assert.Equal(t, "code", u.Query().Get("response_type"))
}

func TestExchange(t *testing.T) {
	var gotForm url.Values
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "at-1",
			ExpiresIn:    3600,
			RefreshToken: "rt-1",
		})
	}))

	token, err := client.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	assert.Equal(t, "auth-code", gotForm.Get("code"))
	assert.Equal(t, "at-1", token.AccessToken)
	assert.Equal(t, "rt-1", token.RefreshToken)
}

func TestRefresh_RejectedSurfacesProviderError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))

	_, err := client.Refresh(context.Background(), "stale")
	var pe *apperrors.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.False(t, pe.Retryable)
}

func TestPublishPost(t *testing.T) {
	var gotPayload map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/ugcPosts", r.URL.Path)
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("X-Restli-Id", "urn:li:share:42")
		w.WriteHeader(http.StatusCreated)
	}))

	result, err := client.PublishPost(context.Background(), "at-1", "urn:li:person:abc", &models.PublicationContent{
		Body:          "Hello world",
		HashtagsBroad: []string{"ai"},
		HashtagsNiche: []string{"#golang"},
	})
	require.NoError(t, err)

	assert.Equal(t, "urn:li:share:42", result.PostID)
	assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:share:42", result.PostURL)
	assert.Equal(t, "urn:li:person:abc", gotPayload["author"])
}

func TestCommentaryText(t *testing.T) {
	text := commentaryText(&models.PublicationContent{
		Body:             "Post body",
		HashtagsBroad:    []string{"ai"},
		HashtagsTrending: []string{"#agents"},
	})
	assert.Equal(t, "Post body\n\n#ai #agents", text)

	assert.Equal(t, "Just body", commentaryText(&models.PublicationContent{Body: "Just body"}))
}
