// Package gemini provides an LLM service adapter using the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/custodia-labs/scrutiny/internal/adapters/driven/googleai"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultLLMModel is used when no model is configured.
const DefaultLLMModel = "gemini-1.5-flash-latest"

// LLMConfig holds configuration for the Gemini LLM service.
type LLMConfig struct {
	// Client holds the API key and transport.
	Client googleai.ClientConfig

	// Model is the generative model to use (default: gemini-1.5-flash-latest).
	Model string

	// RateLimit overrides the default request rate.
	RateLimit *googleai.RateLimitConfig
}

// LLMService generates text with generateContent.
type LLMService struct {
	models  googleai.Models
	model   string
	limiter *googleai.RateLimiter
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg LLMConfig) (*LLMService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}

	models, err := googleai.NewModels(ctx, cfg.Client)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	limiter := googleai.NewRateLimiter(googleai.EndpointGenerate)
	if cfg.RateLimit != nil {
		limiter = googleai.NewRateLimiterWithConfig(*cfg.RateLimit)
	}

	return &LLMService{
		models:  models,
		model:   googleai.ModelPath(cfg.Model),
		limiter: limiter,
	}, nil
}

// Generate produces text completion from a prompt.
// A reply without candidates or text yields an empty string.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(opts.MaxTokens),
		StopSequences:   opts.StopWords,
	}
	for _, setting := range opts.SafetySettings {
		config.SafetySettings = append(config.SafetySettings, &genai.SafetySetting{
			Category:  genai.HarmCategory(setting.Category),
			Threshold: genai.HarmBlockThreshold(setting.Threshold),
		})
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := s.models.GenerateContent(ctx, s.model, []*genai.Content{googleai.UserText(prompt)}, config)
	if err != nil {
		s.limiter.Observe(err)
		return "", fmt.Errorf("gemini: generate: %w", googleai.WrapError(err))
	}

	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			logger.Warn("Gemini blocked the prompt: %s", resp.PromptFeedback.BlockReason)
		}
		return "", nil
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		if candidate != nil {
			logger.Debug("Gemini candidate has no content (finish reason %s)", candidate.FinishReason)
		}
		return "", nil
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the key and model by fetching the model resource.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.models.Get(ctx, s.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", googleai.WrapError(err))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
