package googleai

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewRateLimiter_KnownEndpoints(t *testing.T) {
	for _, endpoint := range []Endpoint{EndpointEmbed, EndpointGenerate, Endpoint("other")} {
		r := NewRateLimiter(endpoint)
		require.NotNil(t, r, "endpoint %s", endpoint)
		assert.True(t, r.Allow(), "first request of %s is within the burst", endpoint)
	}
}

func TestRateLimiter_UnlimitedConfig(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{})

	for i := 0; i < 100; i++ {
		require.NoError(t, r.Wait(context.Background()))
	}
}

func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{})
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	r.RecordRateLimitError(30)
	assert.False(t, r.Allow())

	r.now = func() time.Time { return base.Add(31 * time.Second) }
	assert.True(t, r.Allow())
}

func TestRateLimiter_DefaultBackoff(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{})
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	r.RecordRateLimitError(0)

	assert.Equal(t, base.Add(defaultBackoff), r.retryAt)
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{})
	r.RecordRateLimitError(3600)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_Observe(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{})

	r.Observe(genai.APIError{Code: http.StatusBadRequest})
	assert.True(t, r.retryAt.IsZero())

	r.Observe(genai.APIError{
		Code:    http.StatusTooManyRequests,
		Details: []map[string]any{{"@type": retryInfoType, "retryDelay": "5s"}},
	})
	assert.False(t, r.retryAt.IsZero())
	assert.False(t, r.Allow())
}
