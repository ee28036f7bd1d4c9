// Package llm provides AI provider clients for text and image generation.
package llm

import (
	"context"

	"github.com/feedforge/feedforge-engine/pkg/models"
)

// TextResult is the raw outcome of one text generation call.
type TextResult struct {
	Content string
	Model   string
	Usage   models.TokenUsage
}

// ImageResult is the raw outcome of one image generation call.
type ImageResult struct {
	Data  []byte // decoded image bytes
	Model string
}

// Client is the provider-facing interface consumed by the orchestrator.
// Implementations make exactly one remote call per method invocation and
// never retry; retry policy belongs to the caller.
type Client interface {
	// GenerateText runs one chat completion with discrete system and user
	// prompts.
	GenerateText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (*TextResult, error)

	// GenerateImage produces one image for the prompt. Size is a provider
	// hint such as "1024x1024"; empty selects the provider default.
	GenerateImage(ctx context.Context, prompt, size string) (*ImageResult, error)

	// TextModel returns the configured text model name.
	TextModel() string

	// ImageModel returns the configured image model name, empty if the
	// provider cannot generate images.
	ImageModel() string
}
