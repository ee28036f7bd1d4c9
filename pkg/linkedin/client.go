// Package linkedin is a minimal REST client for the LinkedIn OAuth token
// endpoints and the UGC post API.
package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/models"
)

// Client calls LinkedIn's OAuth and publishing endpoints.
type Client struct {
	clientID     string
	clientSecret string
	redirectURL  string
	authBaseURL  string // override in tests
	apiBaseURL   string // override in tests
	http         *http.Client
	logger       *zap.Logger
}

// Config holds LinkedIn client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthBaseURL  string // defaults to https://www.linkedin.com
	APIBaseURL   string // defaults to https://api.linkedin.com
}

// NewClient creates a LinkedIn client.
func NewClient(cfg *Config, logger *zap.Logger) *Client {
	authBase := cfg.AuthBaseURL
	if authBase == "" {
		authBase = "https://www.linkedin.com"
	}
	apiBase := cfg.APIBaseURL
	if apiBase == "" {
		apiBase = "https://api.linkedin.com"
	}
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURL:  cfg.RedirectURL,
		authBaseURL:  strings.TrimSuffix(authBase, "/"),
		apiBaseURL:   strings.TrimSuffix(apiBase, "/"),
		http:         &http.Client{Timeout: 30 * time.Second},
		logger:       logger.Named("linkedin"),
	}
}

// AuthCodeURL builds the authorization redirect URL for the connect flow.
func (c *Client) AuthCodeURL(state string) string {
	q := url.Values{
		"response_type": {"code"},
		"client_id":     {c.clientID},
		"redirect_uri":  {c.redirectURL},
		"state":         {state},
		"scope":         {"openid profile w_member_social"},
	}
	return c.authBaseURL + "/oauth/v2/authorization?" + q.Encode()
}

// TokenResponse is the OAuth token endpoint payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// Exchange trades an authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, code string) (*TokenResponse, error) {
	return c.tokenRequest(ctx, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {c.redirectURL},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	})
}

// Refresh trades a refresh token for a fresh access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return c.tokenRequest(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	})
}

func (c *Client) tokenRequest(ctx context.Context, form url.Values) (*TokenResponse, error) {
	endpoint := c.authBaseURL + "/oauth/v2/accessToken"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperrors.ProviderError{Provider: "linkedin", Message: "token request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &apperrors.ProviderError{
			Provider:   "linkedin",
			Message:    fmt.Sprintf("token request rejected: %s", strings.TrimSpace(string(body))),
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode >= 500,
		}
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, &apperrors.ProviderError{Provider: "linkedin", Message: "token response missing access_token"}
	}
	return &token, nil
}

// FetchMemberURN resolves the authenticated member's URN, used as the post
// author.
func (c *Client) FetchMemberURN(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/v2/userinfo", nil)
	if err != nil {
		return "", fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &apperrors.ProviderError{Provider: "linkedin", Message: "userinfo request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &apperrors.ProviderError{
			Provider:   "linkedin",
			Message:    "userinfo request rejected",
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode >= 500,
		}
	}

	var info struct {
		Sub string `json:"sub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode userinfo response: %w", err)
	}
	if info.Sub == "" {
		return "", &apperrors.ProviderError{Provider: "linkedin", Message: "userinfo response missing sub"}
	}
	return "urn:li:person:" + info.Sub, nil
}

// PostResult identifies a published post.
type PostResult struct {
	PostID  string `json:"post_id"`
	PostURL string `json:"post_url"`
}

// PublishPost publishes the frozen content as a UGC post and returns the
// post id and public URL. The commentary is the body followed by all hashtag
// groups.
func (c *Client) PublishPost(ctx context.Context, accessToken, authorURN string, content *models.PublicationContent) (*PostResult, error) {
	payload := map[string]any{
		"author":         authorURN,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary": map[string]any{
					"text": commentaryText(content),
				},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal post payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+"/v2/ugcPosts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build post request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperrors.ProviderError{Provider: "linkedin", Message: "post request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &apperrors.ProviderError{
			Provider:   "linkedin",
			Message:    fmt.Sprintf("post rejected: %s", strings.TrimSpace(string(respBody))),
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode >= 500,
		}
	}

	postID := resp.Header.Get("X-Restli-Id")
	if postID == "" {
		var created struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&created); err == nil {
			postID = created.ID
		}
	}
	if postID == "" {
		return nil, &apperrors.ProviderError{Provider: "linkedin", Message: "post response missing id"}
	}

	c.logger.Info("post published", zap.String("post_id", postID))

	return &PostResult{
		PostID:  postID,
		PostURL: "https://www.linkedin.com/feed/update/" + postID,
	}, nil
}

// commentaryText joins the body with every hashtag group.
func commentaryText(content *models.PublicationContent) string {
	var b strings.Builder
	b.WriteString(content.Body)

	var tags []string
	tags = append(tags, content.HashtagsBroad...)
	tags = append(tags, content.HashtagsNiche...)
	tags = append(tags, content.HashtagsTrending...)
	if len(tags) > 0 {
		b.WriteString("\n\n")
		for i, tag := range tags {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString("#" + strings.TrimPrefix(tag, "#"))
		}
	}
	return b.String()
}
