package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/crypto"
	"github.com/feedforge/feedforge-engine/pkg/models"
)

type fakeTokenRepo struct {
	token *models.LinkedInToken
}

func (f *fakeTokenRepo) GetByUser(ctx context.Context) (*models.LinkedInToken, error) {
	if f.token == nil {
		return nil, apperrors.ErrNotFound
	}
	copied := *f.token
	return &copied, nil
}

func (f *fakeTokenRepo) Upsert(ctx context.Context, token *models.LinkedInToken) error {
	copied := *token
	f.token = &copied
	return nil
}

func (f *fakeTokenRepo) Delete(ctx context.Context) error {
	f.token = nil
	return nil
}

func TestLinkedInTokensEncryptedAtRest(t *testing.T) {
	enc, err := crypto.NewTokenEncryptor("unit-test-key")
	require.NoError(t, err)

	repo := &fakeTokenRepo{}
	svc := &linkedInService{tokenRepo: repo, enc: enc, logger: zap.NewNop()}

	token := &models.LinkedInToken{
		AccessToken:  "plain-access",
		RefreshToken: "plain-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
		MemberURN:    "urn:li:person:abc",
	}
	require.NoError(t, svc.storeToken(context.Background(), token))

	// The stored row must not contain the plaintext values.
	require.NotNil(t, repo.token)
	assert.NotEqual(t, "plain-access", repo.token.AccessToken)
	assert.NotEqual(t, "plain-refresh", repo.token.RefreshToken)
	assert.Equal(t, "urn:li:person:abc", repo.token.MemberURN)

	// The caller's copy keeps the plaintext.
	assert.Equal(t, "plain-access", token.AccessToken)

	loaded, err := svc.loadToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "plain-access", loaded.AccessToken)
	assert.Equal(t, "plain-refresh", loaded.RefreshToken)
}

func TestLinkedInTokensPlaintextWithoutEncryptor(t *testing.T) {
	repo := &fakeTokenRepo{}
	svc := &linkedInService{tokenRepo: repo, logger: zap.NewNop()}

	token := &models.LinkedInToken{AccessToken: "plain-access", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, svc.storeToken(context.Background(), token))
	assert.Equal(t, "plain-access", repo.token.AccessToken)

	loaded, err := svc.loadToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "plain-access", loaded.AccessToken)
}

func TestLinkedInConnected(t *testing.T) {
	repo := &fakeTokenRepo{}
	svc := &linkedInService{tokenRepo: repo, logger: zap.NewNop()}

	assert.False(t, svc.Connected(context.Background()))

	repo.token = &models.LinkedInToken{AccessToken: "a", ExpiresAt: time.Now().Add(time.Hour)}
	assert.True(t, svc.Connected(context.Background()))

	require.NoError(t, svc.Disconnect(context.Background()))
	assert.False(t, svc.Connected(context.Background()))
}
