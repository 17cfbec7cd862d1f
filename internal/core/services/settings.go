package services

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedBatchSize  = "embedding.batch_size"
	keyEmbedBatchDelay = "embedding.batch_delay_ms"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMCallDelay    = "llm.call_delay_ms"
	keySyllabusMin     = "chunking.syllabus_min"
	keySyllabusMax     = "chunking.syllabus_max"
	keyTextbookMin     = "chunking.textbook_min"
	keyTextbookMax     = "chunking.textbook_max"
	keyTopK            = "retrieval.top_k"
	keyContextChars    = "retrieval.context_chars"
	keyServerAddr      = "server.addr"
	keyServerUploadDir = "server.upload_dir"
	keyServerMaxUpload = "server.max_upload_mb"
)

// EnvGeminiAPIKey is consulted when no Gemini API key is configured.
//
//nolint:gosec // G101: This is an environment variable name.
const EnvGeminiAPIKey = "GEMINI_API_KEY"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// An unset Gemini API key falls back to the GEMINI_API_KEY environment variable.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.configStore.GetString(keyEmbedModel),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			BatchSize:  s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			BatchDelay: s.getMillis(keyEmbedBatchDelay, defaults.Embedding.BatchDelay),
		},
		LLM: domain.LLMSettings{
			Provider:  s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:     s.configStore.GetString(keyLLMModel),
			BaseURL:   s.configStore.GetString(keyLLMBaseURL),
			APIKey:    s.configStore.GetString(keyLLMAPIKey),
			CallDelay: s.getMillis(keyLLMCallDelay, defaults.LLM.CallDelay),
		},
		Chunking: domain.ChunkingSettings{
			SyllabusMin: s.getInt(keySyllabusMin, defaults.Chunking.SyllabusMin),
			SyllabusMax: s.getInt(keySyllabusMax, defaults.Chunking.SyllabusMax),
			TextbookMin: s.getInt(keyTextbookMin, defaults.Chunking.TextbookMin),
			TextbookMax: s.getInt(keyTextbookMax, defaults.Chunking.TextbookMax),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:         s.getInt(keyTopK, defaults.Retrieval.TopK),
			ContextChars: s.getInt(keyContextChars, defaults.Retrieval.ContextChars),
		},
		Server: domain.ServerSettings{
			Addr:        s.getString(keyServerAddr, defaults.Server.Addr),
			UploadDir:   s.getString(keyServerUploadDir, defaults.Server.UploadDir),
			MaxUploadMB: s.getInt(keyServerMaxUpload, defaults.Server.MaxUploadMB),
		},
	}

	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}
	if settings.Embedding.Provider.IsLocal() && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = domain.DefaultOllamaBaseURL
	}
	if settings.LLM.Provider.IsLocal() && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = domain.DefaultOllamaBaseURL
	}
	if settings.Embedding.Provider == domain.AIProviderGemini && settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.getenv(EnvGeminiAPIKey)
	}
	if settings.LLM.Provider == domain.AIProviderGemini && settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.getenv(EnvGeminiAPIKey)
	}

	return settings, nil
}

// Save persists application settings.
// API keys taken from the environment are never written to disk.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	envKey := s.getenv(EnvGeminiAPIKey)

	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyEmbedBatchDelay, int(settings.Embedding.BatchDelay / time.Millisecond)},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMCallDelay, int(settings.LLM.CallDelay / time.Millisecond)},
		{keySyllabusMin, settings.Chunking.SyllabusMin},
		{keySyllabusMax, settings.Chunking.SyllabusMax},
		{keyTextbookMin, settings.Chunking.TextbookMin},
		{keyTextbookMax, settings.Chunking.TextbookMax},
		{keyTopK, settings.Retrieval.TopK},
		{keyContextChars, settings.Retrieval.ContextChars},
		{keyServerAddr, settings.Server.Addr},
		{keyServerUploadDir, settings.Server.UploadDir},
		{keyServerMaxUpload, settings.Server.MaxUploadMB},
	}
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != envKey {
		values = append(values, struct {
			key   string
			value any
		}{keyEmbedAPIKey, settings.Embedding.APIKey})
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != envKey {
		values = append(values, struct {
			key   string
			value any
		}{keyLLMAPIKey, settings.LLM.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Validate API key if required
	if apiKey == "" && provider == settings.Embedding.Provider {
		apiKey = settings.Embedding.APIKey
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = s.modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey == "" && provider == settings.LLM.Provider {
		apiKey = settings.LLM.APIKey
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = s.modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that both AI services are configured.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: set an embedding provider (and API key for %s)",
			domain.ErrEmbeddingUnavailable, domain.AIProviderGemini)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: set an LLM provider (and API key for %s)",
			domain.ErrLLMUnavailable, domain.AIProviderGemini)
	}
	if settings.Chunking.SyllabusMin > settings.Chunking.SyllabusMax {
		return fmt.Errorf("%w: chunking.syllabus_min exceeds chunking.syllabus_max", domain.ErrInvalidInput)
	}
	if settings.Chunking.TextbookMin > settings.Chunking.TextbookMax {
		return fmt.Errorf("%w: chunking.textbook_min exceeds chunking.textbook_max", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getMillis reads a millisecond value. An explicit 0 disables the delay.
func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Millisecond
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) modelOrDefault(model, defaultModel string) string {
	if model != "" {
		return model
	}
	return defaultModel
}

// baseURLFor keeps a custom base URL for local providers and clears it for
// cloud providers.
func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return domain.DefaultOllamaBaseURL
	}
	return current
}
