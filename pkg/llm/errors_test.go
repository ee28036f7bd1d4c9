package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
)

func TestClassifyError_OpenAIAPIError(t *testing.T) {
	err := classifyError("openai", &openai.APIError{
		HTTPStatusCode: 429,
		Message:        "rate limited",
	})

	require.NotNil(t, err)
	assert.Equal(t, "openai", err.Provider)
	assert.Equal(t, 429, err.StatusCode)
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClassifyError_ServerError(t *testing.T) {
	err := classifyError("openai", &openai.APIError{HTTPStatusCode: 503, Message: "overloaded"})
	require.NotNil(t, err)
	assert.True(t, err.Retryable)

	err = classifyError("openai", &openai.APIError{HTTPStatusCode: 400, Message: "bad request"})
	require.NotNil(t, err)
	assert.False(t, err.Retryable)
}

func TestClassifyError_Timeout(t *testing.T) {
	err := classifyError("anthropic", fmt.Errorf("call: %w", context.DeadlineExceeded))
	require.NotNil(t, err)
	assert.True(t, err.Retryable)
}

func TestClassifyError_WrapsForErrorsAs(t *testing.T) {
	cause := errors.New("boom")
	err := classifyError("openai", cause)

	var pe *apperrors.ProviderError
	require.ErrorAs(t, error(err), &pe)
	assert.ErrorIs(t, err, cause)
}

func TestClassifyError_NilPassthrough(t *testing.T) {
	assert.Nil(t, classifyError("openai", nil))
}
