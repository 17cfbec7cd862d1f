package googleai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"unauthorised", genai.APIError{Code: http.StatusUnauthorized}, domain.ErrAPIKeyExpired},
		{"forbidden", genai.APIError{Code: http.StatusForbidden}, domain.ErrAPIKeyExpired},
		{"rate limited", genai.APIError{Code: http.StatusTooManyRequests}, domain.ErrQuotaExceeded},
		{"bad key", genai.APIError{Code: http.StatusBadRequest, Message: "API key expired. Please renew the API key."}, domain.ErrAPIKeyExpired},
		{"bad request", genai.APIError{Code: http.StatusBadRequest, Message: "Invalid JSON payload"}, domain.ErrBadRequest},
		{"server error", genai.APIError{Code: http.StatusInternalServerError, Message: "internal"}, domain.ErrLLMCall},
		{"pointer api error", &genai.APIError{Code: http.StatusTooManyRequests}, domain.ErrQuotaExceeded},
		{"wrapped api error", fmt.Errorf("generate: %w", genai.APIError{Code: http.StatusTooManyRequests}), domain.ErrQuotaExceeded},
		{"plain quota message", errors.New("quota exhausted"), domain.ErrQuotaExceeded},
		{"plain transport error", errors.New("connection refused"), domain.ErrLLMCall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(tt.err)
			assert.ErrorIs(t, err, tt.expected)
			assert.ErrorIs(t, err, tt.err, "original error stays in the chain")
		})
	}
}

func TestWrapError_Nil(t *testing.T) {
	assert.NoError(t, WrapError(nil))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(genai.APIError{Code: http.StatusTooManyRequests}))
	assert.False(t, IsRateLimited(genai.APIError{Code: http.StatusBadRequest}))
	assert.False(t, IsRateLimited(errors.New("429")))
	assert.False(t, IsRateLimited(nil))
}

func TestRetryAfter(t *testing.T) {
	retryInfo := func(delay any) genai.APIError {
		return genai.APIError{
			Code: http.StatusTooManyRequests,
			Details: []map[string]any{
				{"@type": "type.googleapis.com/google.rpc.QuotaFailure"},
				{"@type": retryInfoType, "retryDelay": delay},
			},
		}
	}

	assert.Equal(t, 17, RetryAfter(retryInfo("17s")))
	assert.Equal(t, 0, RetryAfter(retryInfo("soon")))
	assert.Equal(t, 0, RetryAfter(retryInfo(17)))
	assert.Equal(t, 0, RetryAfter(genai.APIError{Code: http.StatusTooManyRequests}))
	assert.Equal(t, 0, RetryAfter(errors.New("other")))
}

func TestModelPath(t *testing.T) {
	assert.Equal(t, "models/gemini-1.5-flash-latest", ModelPath("gemini-1.5-flash-latest"))
	assert.Equal(t, "models/text-embedding-004", ModelPath("models/text-embedding-004"))
}

func TestNewModels(t *testing.T) {
	_, err := NewModels(context.Background(), ClientConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	fake := &genai.Models{}
	models, err := NewModels(context.Background(), ClientConfig{Models: fake})
	assert.NoError(t, err)
	assert.Same(t, fake, models)

	models, err = NewModels(context.Background(), ClientConfig{APIKey: "test-key"})
	assert.NoError(t, err)
	assert.NotNil(t, models)
}

func TestUserText(t *testing.T) {
	content := UserText("Explain quicksort.")

	assert.Equal(t, "user", content.Role)
	assert.Equal(t, []*genai.Part{{Text: "Explain quicksort."}}, content.Parts)
}
