// Package storage is a REST client for an S3-compatible object storage
// gateway (Supabase storage API shape).
package storage

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
)

const publicPathSegment = "/storage/v1/object/public/"

// Client uploads and removes objects over the storage REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// Config holds storage client configuration.
type Config struct {
	BaseURL string
	APIKey  string
}

// NewClient creates a storage client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  logger.Named("storage"),
	}, nil
}

// Upload stores data at bucket/path and returns the public URL.
func (c *Client) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &apperrors.ProviderError{Provider: "storage", Message: "upload failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &apperrors.ProviderError{
			Provider:   "storage",
			Message:    fmt.Sprintf("upload rejected: %s", strings.TrimSpace(string(body))),
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode >= 500,
		}
	}

	c.logger.Debug("object uploaded",
		zap.String("bucket", bucket),
		zap.String("path", path),
		zap.Int("bytes", len(data)))

	return c.PublicURL(bucket, path), nil
}

// Remove deletes the given object paths from a bucket. Missing objects are
// not an error on the gateway side.
func (c *Client) Remove(ctx context.Context, bucket string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("marshal remove payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build remove request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &apperrors.ProviderError{Provider: "storage", Message: "remove failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &apperrors.ProviderError{
			Provider:   "storage",
			Message:    fmt.Sprintf("remove rejected: %s", strings.TrimSpace(string(body))),
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode >= 500,
		}
	}

	return nil
}

// PublicURL returns the public URL for an object.
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s%s%s/%s", c.baseURL, publicPathSegment, bucket, path)
}

// PathFromURL recovers the bucket-relative object path from a public URL
// previously returned by Upload. Returns false if the URL does not point at
// the given bucket on this gateway.
func PathFromURL(rawURL, bucket string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	prefix := publicPathSegment + bucket + "/"
	idx := strings.Index(u.Path, prefix)
	if idx < 0 {
		return "", false
	}
	path := u.Path[idx+len(prefix):]
	if path == "" {
		return "", false
	}
	return path, true
}
