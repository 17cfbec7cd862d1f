package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Generative Language API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for Gemini).
	APIKey string

	// BatchSize is the number of texts sent per embedding request.
	BatchSize int

	// BatchDelay is the pause after every successful batch request.
	BatchDelay time.Duration
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for Gemini).
	APIKey string

	// CallDelay is the pause after every completed generate call.
	CallDelay time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings holds the paragraph chunk bounds per source type.
type ChunkingSettings struct {
	SyllabusMin int
	SyllabusMax int
	TextbookMin int
	TextbookMax int
}

// RetrievalSettings controls how much context each LLM call sees.
type RetrievalSettings struct {
	// TopK is the number of documents retrieved per check.
	TopK int

	// ContextChars truncates each retrieved document in the prompt.
	ContextChars int
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Addr        string
	UploadDir   string
	MaxUploadMB int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Server    ServerSettings
}

// Defaults used when nothing is configured.
const (
	DefaultBatchSize     = 100
	DefaultBatchDelay    = time.Second
	DefaultCallDelay     = 2 * time.Second
	DefaultSyllabusMin   = 50
	DefaultSyllabusMax   = 400
	DefaultTextbookMin   = 200
	DefaultTextbookMax   = 800
	DefaultTopK          = 3
	DefaultContextChars  = 500
	DefaultServerAddr    = ":5002"
	DefaultUploadDir     = "uploads"
	DefaultMaxUploadMB   = 16
	DefaultOllamaBaseURL = "http://localhost:11434"
)

// DefaultAppSettings returns settings with sensible defaults.
// Both AI services default to Gemini; the API key must still be
// supplied through settings or the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderGemini,
			Model:      DefaultEmbeddingModels()[AIProviderGemini],
			BatchSize:  DefaultBatchSize,
			BatchDelay: DefaultBatchDelay,
		},
		LLM: LLMSettings{
			Provider:  AIProviderGemini,
			Model:     DefaultLLMModels()[AIProviderGemini],
			CallDelay: DefaultCallDelay,
		},
		Chunking: ChunkingSettings{
			SyllabusMin: DefaultSyllabusMin,
			SyllabusMax: DefaultSyllabusMax,
			TextbookMin: DefaultTextbookMin,
			TextbookMax: DefaultTextbookMax,
		},
		Retrieval: RetrievalSettings{
			TopK:         DefaultTopK,
			ContextChars: DefaultContextChars,
		},
		Server: ServerSettings{
			Addr:        DefaultServerAddr,
			UploadDir:   DefaultUploadDir,
			MaxUploadMB: DefaultMaxUploadMB,
		},
	}
}

// AllProviders returns every supported provider.
func AllProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOllama,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "models/text-embedding-004",
		AIProviderOllama: "nomic-embed-text",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "gemini-1.5-flash-latest",
		AIProviderOllama: "llama3.2",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Gemini models
		"models/text-embedding-004": 768,
		"models/embedding-001":      768,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
	}
}
