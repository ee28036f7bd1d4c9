package llm

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
)

// classifyError converts a provider SDK error into an apperrors.ProviderError
// with status code and retryability filled in where they can be determined.
func classifyError(provider string, err error) *apperrors.ProviderError {
	if err == nil {
		return nil
	}

	pe := &apperrors.ProviderError{
		Provider: provider,
		Message:  err.Error(),
		Cause:    err,
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		pe.StatusCode = apiErr.HTTPStatusCode
		pe.Message = apiErr.Message
	}

	switch {
	case pe.StatusCode == 429 || pe.StatusCode >= 500:
		pe.Retryable = true
	case errors.Is(err, context.DeadlineExceeded):
		pe.Retryable = true
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			pe.Retryable = true
		} else if strings.Contains(strings.ToLower(err.Error()), "connection refused") {
			pe.Retryable = true
		}
	}

	return pe
}
