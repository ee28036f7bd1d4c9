package llm

import (
	"context"
)

// MockClient is a configurable mock for testing generation flows.
// Set the function fields to control behavior in tests.
type MockClient struct {
	// GenerateTextFunc is called when GenerateText is invoked.
	// If nil, returns an empty result and nil error.
	GenerateTextFunc func(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (*TextResult, error)

	// GenerateImageFunc is called when GenerateImage is invoked.
	// If nil, returns an empty result and nil error.
	GenerateImageFunc func(ctx context.Context, prompt, size string) (*ImageResult, error)

	// Model names returned by TextModel/ImageModel.
	Model     string
	ImageName string

	// Call tracking for verification
	GenerateTextCalls  int
	GenerateImageCalls int
}

// NewMockClient creates a new mock with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Model:     "mock-model",
		ImageName: "mock-image-model",
	}
}

var _ Client = (*MockClient)(nil)

// GenerateText implements Client.
func (m *MockClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (*TextResult, error) {
	m.GenerateTextCalls++
	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, systemPrompt, userPrompt, temperature)
	}
	return &TextResult{Model: m.Model}, nil
}

// GenerateImage implements Client.
func (m *MockClient) GenerateImage(ctx context.Context, prompt, size string) (*ImageResult, error) {
	m.GenerateImageCalls++
	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt, size)
	}
	return &ImageResult{Model: m.ImageName}, nil
}

// TextModel implements Client.
func (m *MockClient) TextModel() string { return m.Model }

// ImageModel implements Client.
func (m *MockClient) ImageModel() string { return m.ImageName }
