// Package gemini provides an embedding service adapter using the Gemini API.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/custodia-labs/scrutiny/internal/adapters/driven/googleai"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "models/text-embedding-004"
	DefaultDimensions = 768
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// Client holds the API key and transport.
	Client googleai.ClientConfig

	// Model is the embedding model to use (default: models/text-embedding-004).
	Model string

	// Dimensions is the embedding vector size (model-dependent).
	Dimensions int

	// RateLimit overrides the default request rate.
	RateLimit *googleai.RateLimitConfig
}

// EmbeddingService embeds texts with one embedContent request per batch.
type EmbeddingService struct {
	models     googleai.Models
	model      string
	dimensions int
	limiter    *googleai.RateLimiter
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	models, err := googleai.NewModels(ctx, cfg.Client)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	limiter := googleai.NewRateLimiter(googleai.EndpointEmbed)
	if cfg.RateLimit != nil {
		limiter = googleai.NewRateLimiterWithConfig(*cfg.RateLimit)
	}

	return &EmbeddingService{
		models:     models,
		model:      googleai.ModelPath(cfg.Model),
		dimensions: cfg.Dimensions,
		limiter:    limiter,
	}, nil
}

// EmbedBatch embeds all texts in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string, task driven.TaskType) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = googleai.UserText(text)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.models.EmbedContent(ctx, s.model, contents, &genai.EmbedContentConfig{
		TaskType: task.String(),
	})
	if err != nil {
		s.limiter.Observe(err)
		return nil, fmt.Errorf("gemini: batch embed: %w", googleai.WrapError(err))
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("gemini: batch embed returned %d embeddings for %d texts", got, len(texts))
	}

	embeddings := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil {
			continue
		}
		embeddings[i] = append([]float32(nil), e.Values...)
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the key and model by fetching the model resource.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.models.Get(ctx, s.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", googleai.WrapError(err))
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
