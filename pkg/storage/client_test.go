package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
)

func TestClient_Upload(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(&Config{BaseURL: srv.URL, APIKey: "key-123"}, zap.NewNop())
	require.NoError(t, err)

	publicURL, err := client.Upload(context.Background(), "media", "u1/img.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/media/u1/img.png", gotPath)
	assert.Equal(t, "Bearer key-123", gotAuth)
	assert.Equal(t, "image/png", gotContentType)
	assert.Equal(t, []byte("png-bytes"), gotBody)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/media/u1/img.png", publicURL)
}

func TestClient_Upload_RejectedSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewClient(&Config{BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), "missing", "p", nil, "image/png")
	var pe *apperrors.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusNotFound, pe.StatusCode)
	assert.False(t, pe.Retryable)
}

func TestClient_Remove(t *testing.T) {
	var gotMethod string
	var gotPrefixes map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotPrefixes)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(&Config{BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, client.Remove(context.Background(), "media", []string{"u1/a.png", "u1/b.png"}))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, []string{"u1/a.png", "u1/b.png"}, gotPrefixes["prefixes"])

	// Empty path list is a no-op, no request issued.
	require.NoError(t, client.Remove(context.Background(), "media", nil))
}

func TestPathFromURL(t *testing.T) {
	path, ok := PathFromURL("https://files.example.com/storage/v1/object/public/media/u1/img.png", "media")
	require.True(t, ok)
	assert.Equal(t, "u1/img.png", path)

	_, ok = PathFromURL("https://files.example.com/storage/v1/object/public/other/u1/img.png", "media")
	assert.False(t, ok)

	_, ok = PathFromURL("://bad", "media")
	assert.False(t, ok)

	_, ok = PathFromURL("https://files.example.com/storage/v1/object/public/media/", "media")
	assert.False(t, ok)
}
