package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/models"
)

const anthropicMaxTokens = 4096

// AnthropicClient talks to the Anthropic Messages API for text generation.
// Image generation is not available on this provider.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

// NewAnthropicClient creates an Anthropic text client.
func NewAnthropicClient(apiKey, model string, logger *zap.Logger) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  model,
		logger: logger.Named("anthropic"),
	}, nil
}

var _ Client = (*AnthropicClient)(nil)

// GenerateText implements Client.
func (c *AnthropicClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (*TextResult, error) {
	temp := float32(temperature)

	start := time.Now()

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      systemPrompt,
		MaxTokens:   anthropicMaxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(userPrompt),
		},
	})
	if err != nil {
		c.logger.Error("text request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, classifyError("anthropic", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			content = *block.Text
			break
		}
	}
	if content == "" {
		return nil, classifyError("anthropic", fmt.Errorf("no text content in response"))
	}

	c.logger.Info("text request completed",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &TextResult{
		Content: content,
		Model:   c.model,
		Usage: models.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

// GenerateImage implements Client. Anthropic has no image generation
// endpoint; callers should route image requests to the OpenAI client.
func (c *AnthropicClient) GenerateImage(ctx context.Context, prompt, size string) (*ImageResult, error) {
	return nil, &apperrors.ProviderError{
		Provider: "anthropic",
		Message:  "image generation is not supported by this provider",
	}
}

// TextModel implements Client.
func (c *AnthropicClient) TextModel() string { return c.model }

// ImageModel implements Client.
func (c *AnthropicClient) ImageModel() string { return "" }
