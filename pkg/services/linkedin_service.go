package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/crypto"
	"github.com/feedforge/feedforge-engine/pkg/linkedin"
	"github.com/feedforge/feedforge-engine/pkg/models"
	"github.com/feedforge/feedforge-engine/pkg/repositories"
)

// LinkedInService manages per-user OAuth tokens and fronts the publishing
// API. It satisfies Publisher for the publish flow.
type LinkedInService interface {
	Publisher

	AuthCodeURL(state string) string
	CompleteConnect(ctx context.Context, code string) error
	Disconnect(ctx context.Context) error
	Connected(ctx context.Context) bool
}

type linkedInService struct {
	client    *linkedin.Client
	tokenRepo repositories.TokenRepository
	enc       *crypto.TokenEncryptor // nil stores tokens in plaintext
	logger    *zap.Logger
}

// NewLinkedInService creates a new LinkedInService. enc may be nil, in which
// case tokens are stored unencrypted.
func NewLinkedInService(client *linkedin.Client, tokenRepo repositories.TokenRepository, enc *crypto.TokenEncryptor, logger *zap.Logger) LinkedInService {
	return &linkedInService{
		client:    client,
		tokenRepo: tokenRepo,
		enc:       enc,
		logger:    logger.Named("linkedin"),
	}
}

var _ LinkedInService = (*linkedInService)(nil)

func (s *linkedInService) AuthCodeURL(state string) string {
	return s.client.AuthCodeURL(state)
}

// CompleteConnect finishes the OAuth callback: exchanges the code, resolves
// the member URN, and stores the token row for the scoped user.
func (s *linkedInService) CompleteConnect(ctx context.Context, code string) error {
	tokenResp, err := s.client.Exchange(ctx, code)
	if err != nil {
		return err
	}

	memberURN, err := s.client.FetchMemberURN(ctx, tokenResp.AccessToken)
	if err != nil {
		return err
	}

	token := &models.LinkedInToken{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
		MemberURN:    memberURN,
	}
	if err := s.storeToken(ctx, token); err != nil {
		return err
	}

	s.logger.Info("linkedin account connected", zap.String("member_urn", memberURN))
	return nil
}

func (s *linkedInService) Disconnect(ctx context.Context) error {
	return s.tokenRepo.Delete(ctx)
}

func (s *linkedInService) Connected(ctx context.Context) bool {
	_, err := s.tokenRepo.GetByUser(ctx)
	return err == nil
}

// validAccessToken returns a non-expired access token for the scoped user,
// refreshing and persisting it when the stored one is stale.
func (s *linkedInService) validAccessToken(ctx context.Context) (*models.LinkedInToken, error) {
	token, err := s.loadToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("linkedin account not connected: %w", err)
	}

	if !token.Expired(time.Now()) {
		return token, nil
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("linkedin token expired and no refresh token stored")
	}

	refreshed, err := s.client.Refresh(ctx, token.RefreshToken)
	if err != nil {
		return nil, err
	}

	token.AccessToken = refreshed.AccessToken
	if refreshed.RefreshToken != "" {
		token.RefreshToken = refreshed.RefreshToken
	}
	token.ExpiresAt = time.Now().Add(time.Duration(refreshed.ExpiresIn) * time.Second)

	if err := s.storeToken(ctx, token); err != nil {
		return nil, err
	}

	s.logger.Info("linkedin token refreshed", zap.Time("expires_at", token.ExpiresAt))
	return token, nil
}

// storeToken upserts the token row, encrypting the token values at rest when
// an encryptor is configured. The caller's copy keeps the plaintext values.
func (s *linkedInService) storeToken(ctx context.Context, token *models.LinkedInToken) error {
	row := *token
	if s.enc != nil {
		var err error
		if row.AccessToken, err = s.enc.Encrypt(token.AccessToken); err != nil {
			return fmt.Errorf("failed to encrypt access token: %w", err)
		}
		if row.RefreshToken, err = s.enc.Encrypt(token.RefreshToken); err != nil {
			return fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
	}
	if err := s.tokenRepo.Upsert(ctx, &row); err != nil {
		return err
	}
	token.UserID = row.UserID
	return nil
}

func (s *linkedInService) loadToken(ctx context.Context) (*models.LinkedInToken, error) {
	token, err := s.tokenRepo.GetByUser(ctx)
	if err != nil {
		return nil, err
	}
	if s.enc != nil {
		if token.AccessToken, err = s.enc.Decrypt(token.AccessToken); err != nil {
			return nil, fmt.Errorf("failed to decrypt access token: %w", err)
		}
		if token.RefreshToken, err = s.enc.Decrypt(token.RefreshToken); err != nil {
			return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
		}
	}
	return token, nil
}

// PublishContent posts the frozen content as the connected member.
func (s *linkedInService) PublishContent(ctx context.Context, content *models.PublicationContent) (string, string, error) {
	token, err := s.validAccessToken(ctx)
	if err != nil {
		return "", "", err
	}

	result, err := s.client.PublishPost(ctx, token.AccessToken, token.MemberURN, content)
	if err != nil {
		return "", "", err
	}
	return result.PostID, result.PostURL, nil
}
