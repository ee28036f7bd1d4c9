package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/models"
)

// OpenAIClient talks to OpenAI-compatible endpoints for both text and image
// generation.
type OpenAIClient struct {
	client     *openai.Client
	model      string
	imageModel string
	logger     *zap.Logger
}

// OpenAIConfig holds configuration for creating an OpenAI client.
type OpenAIConfig struct {
	BaseURL    string // e.g. "https://api.openai.com/v1"
	Model      string // e.g. "gpt-4o"
	ImageModel string // e.g. "dall-e-3"
	APIKey     string // optional for local endpoints
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint.
func NewOpenAIClient(cfg *OpenAIConfig, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		logger:     logger.Named("openai"),
	}, nil
}

var _ Client = (*OpenAIClient)(nil)

// GenerateText implements Client.
func (c *OpenAIClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (*TextResult, error) {
	c.logger.Debug("text request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(userPrompt)),
		zap.Float64("temperature", temperature))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: float32(temperature),
	})
	if err != nil {
		c.logger.Error("text request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, classifyError("openai", err)
	}

	if len(resp.Choices) == 0 {
		return nil, classifyError("openai", fmt.Errorf("no choices in response"))
	}

	c.logger.Info("text request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &TextResult{
		Content: resp.Choices[0].Message.Content,
		Model:   c.model,
		Usage: models.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// GenerateImage implements Client. The response is requested as base64 so
// the bytes can be handed straight to storage.
func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt, size string) (*ImageResult, error) {
	if c.imageModel == "" {
		return nil, classifyError("openai", fmt.Errorf("no image model configured"))
	}
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}

	start := time.Now()

	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              1,
		Size:           size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		c.logger.Error("image request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, classifyError("openai", err)
	}

	if len(resp.Data) == 0 {
		return nil, classifyError("openai", fmt.Errorf("no image data in response"))
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, classifyError("openai", fmt.Errorf("decode image payload: %w", err))
	}

	c.logger.Info("image request completed",
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))

	return &ImageResult{Data: data, Model: c.imageModel}, nil
}

// TextModel implements Client.
func (c *OpenAIClient) TextModel() string { return c.model }

// ImageModel implements Client.
func (c *OpenAIClient) ImageModel() string { return c.imageModel }
