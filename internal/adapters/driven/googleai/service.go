// Package googleai holds the plumbing shared by the Gemini embedding and
// LLM adapters: client construction, error mapping and rate limiting.
package googleai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// ErrMissingAPIKey indicates a Gemini adapter was configured without a key.
var ErrMissingAPIKey = errors.New("googleai: API key is required")

// modelPrefix is the resource prefix the API expects on model names.
const modelPrefix = "models/"

// Models is the part of the genai models API the adapters call.
// *genai.Models satisfies it.
type Models interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

var _ Models = (*genai.Models)(nil)

// ClientConfig holds connection settings for the Gemini API.
type ClientConfig struct {
	// APIKey authenticates requests. Required unless Models is set.
	APIKey string

	// BaseURL overrides the API base URL, for proxies.
	BaseURL string

	// HTTPClient replaces the default transport.
	HTTPClient *http.Client

	// Models replaces the genai client entirely. Used by tests.
	Models Models
}

// NewModels returns the models API described by cfg.
func NewModels(ctx context.Context, cfg ClientConfig) (Models, error) {
	if cfg.Models != nil {
		return cfg.Models, nil
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// ModelPath returns name with the "models/" resource prefix.
func ModelPath(name string) string {
	if strings.HasPrefix(name, modelPrefix) {
		return name
	}
	return modelPrefix + name
}

// UserText wraps text as a single user turn.
func UserText(text string) *genai.Content {
	return &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: text}},
	}
}
