package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/config"
)

// NewClientFromConfig creates the provider client selected by configuration.
// With the anthropic provider, image generation still needs the OpenAI image
// endpoint, so a split client routing text to Anthropic and images to OpenAI
// is returned when both are configured.
func NewClientFromConfig(cfg *config.AIConfig, logger *zap.Logger) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(&OpenAIConfig{
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.Model,
			ImageModel: cfg.OpenAI.ImageModel,
			APIKey:     cfg.OpenAI.APIKey,
		}, logger)

	case "anthropic":
		text, err := NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("create anthropic client: %w", err)
		}
		if cfg.OpenAI.APIKey == "" || cfg.OpenAI.ImageModel == "" {
			return text, nil
		}
		images, err := NewOpenAIClient(&OpenAIConfig{
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.Model,
			ImageModel: cfg.OpenAI.ImageModel,
			APIKey:     cfg.OpenAI.APIKey,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create image client: %w", err)
		}
		return &splitClient{text: text, images: images}, nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// splitClient routes text and image generation to different providers.
type splitClient struct {
	text   Client
	images Client
}

var _ Client = (*splitClient)(nil)

func (c *splitClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (*TextResult, error) {
	return c.text.GenerateText(ctx, systemPrompt, userPrompt, temperature)
}

func (c *splitClient) GenerateImage(ctx context.Context, prompt, size string) (*ImageResult, error) {
	return c.images.GenerateImage(ctx, prompt, size)
}

func (c *splitClient) TextModel() string { return c.text.TextModel() }

func (c *splitClient) ImageModel() string { return c.images.ImageModel() }
