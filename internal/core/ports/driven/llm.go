// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides the generative model used to judge question coverage.
//
// Implementations should classify failures with the domain LLM sentinels
// so callers can tell an expired key or an exhausted quota from a
// transient failure. A reply with no text is returned as an empty string,
// not an error.
//
// Implementations may include:
//   - Gemini (gemini-1.5-flash)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero means
	// the provider default.
	MaxTokens int

	// StopWords are sequences that stop generation when encountered.
	StopWords []string

	// SafetySettings relax or tighten provider content filters.
	// Providers without content filters ignore them.
	SafetySettings []SafetySetting
}

// SafetySetting sets the block threshold for one harm category.
type SafetySetting struct {
	Category  string
	Threshold string
}

// Harm categories and thresholds understood by providers with content filters.
const (
	HarmCategoryHarassment       = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech       = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategorySexuallyExplicit = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryDangerousContent = "HARM_CATEGORY_DANGEROUS_CONTENT"

	BlockNone = "BLOCK_NONE"
)

// PermissiveSafetySettings disables blocking for every harm category.
// Exam questions on medicine, security or history routinely trip the
// default filters.
func PermissiveSafetySettings() []SafetySetting {
	return []SafetySetting{
		{Category: HarmCategoryHarassment, Threshold: BlockNone},
		{Category: HarmCategoryHateSpeech, Threshold: BlockNone},
		{Category: HarmCategorySexuallyExplicit, Threshold: BlockNone},
		{Category: HarmCategoryDangerousContent, Threshold: BlockNone},
	}
}
