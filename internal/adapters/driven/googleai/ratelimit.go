package googleai

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Endpoint identifies a Gemini API method family for rate
// limiting purposes.
type Endpoint string

const (
	// EndpointEmbed covers embedContent calls.
	EndpointEmbed Endpoint = "embed"
	// EndpointGenerate covers generateContent calls.
	EndpointGenerate Endpoint = "generate"
)

// RateLimitConfig holds rate limiting configuration for an endpoint.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits stay under the free-tier per-minute quotas.
var DefaultRateLimits = map[Endpoint]RateLimitConfig{
	EndpointEmbed:    {RequestsPerSecond: 2.0, BurstSize: 5},
	EndpointGenerate: {RequestsPerSecond: 0.25, BurstSize: 2},
}

// defaultBackoff applies when a 429 carries no Retry-After hint.
const defaultBackoff = 60 * time.Second

// RateLimiter is a token bucket with a backoff window opened by 429s.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// NewRateLimiter creates a rate limiter for the given endpoint.
func NewRateLimiter(endpoint Endpoint) *RateLimiter {
	cfg, ok := DefaultRateLimits[endpoint]
	if !ok {
		cfg = RateLimitConfig{RequestsPerSecond: 1.0, BurstSize: 1}
	}
	return NewRateLimiterWithConfig(cfg)
}

// NewRateLimiterWithConfig creates a rate limiter with custom configuration.
// A non-positive rate disables the token bucket.
func NewRateLimiterWithConfig(cfg RateLimitConfig) *RateLimiter {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

// Wait blocks until a request may be sent, honouring any open backoff window.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	wait := r.retryAt.Sub(r.now())
	r.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError opens a backoff window after a 429 response.
func (r *RateLimiter) RecordRateLimitError(retryAfterSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	backoff := defaultBackoff
	if retryAfterSeconds > 0 {
		backoff = time.Duration(retryAfterSeconds) * time.Second
	}
	r.retryAt = r.now().Add(backoff)
}

// Allow reports whether a request may be sent immediately.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	blocked := r.now().Before(r.retryAt)
	r.mu.Unlock()

	if blocked {
		return false
	}
	return r.limiter.Allow()
}

// Observe records err against the limiter when it is a rate limit error.
func (r *RateLimiter) Observe(err error) {
	if IsRateLimited(err) {
		r.RecordRateLimitError(RetryAfter(err))
	}
}
