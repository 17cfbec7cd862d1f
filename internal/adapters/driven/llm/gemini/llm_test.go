package gemini

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/custodia-labs/scrutiny/internal/adapters/driven/googleai"
	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
)

// mockModels records generate calls and replays a canned response.
type mockModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	gets     []string

	response *genai.GenerateContentResponse
	err      error
}

func (m *mockModels) EmbedContent(context.Context, string, []*genai.Content,
	*genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	return nil, nil
}

func (m *mockModels) GenerateContent(_ context.Context, model string, contents []*genai.Content,
	config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.model = model
	m.contents = contents
	m.config = config
	return m.response, m.err
}

func (m *mockModels) Get(_ context.Context, model string, _ *genai.GetModelConfig) (*genai.Model, error) {
	m.gets = append(m.gets, model)
	if m.err != nil {
		return nil, m.err
	}
	return &genai.Model{Name: model}, nil
}

func newTestLLM(t *testing.T, models *mockModels) *LLMService {
	t.Helper()
	svc, err := NewLLMService(context.Background(), LLMConfig{
		Client:    googleai.ClientConfig{Models: models},
		RateLimit: &googleai.RateLimitConfig{},
	})
	require.NoError(t, err)
	return svc
}

func reply(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc := newTestLLM(t, &mockModels{})

	assert.Equal(t, "models/gemini-1.5-flash-latest", svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(context.Background(), LLMConfig{})

	assert.ErrorIs(t, err, googleai.ErrMissingAPIKey)
}

func TestGenerate(t *testing.T) {
	models := &mockModels{response: reply("SYLLABUS_VERDICT: IN_SYLLABUS\n", "REASONING: Unit 1.")}
	svc := newTestLLM(t, models)

	text, err := svc.Generate(context.Background(), "Is sorting covered?", driven.GenerateOptions{
		SafetySettings: driven.PermissiveSafetySettings(),
	})

	require.NoError(t, err)
	assert.Equal(t, "SYLLABUS_VERDICT: IN_SYLLABUS\nREASONING: Unit 1.", text)

	assert.Equal(t, "models/gemini-1.5-flash-latest", models.model)
	require.Len(t, models.contents, 1)
	assert.Equal(t, "user", models.contents[0].Role)
	assert.Equal(t, "Is sorting covered?", models.contents[0].Parts[0].Text)

	require.NotNil(t, models.config)
	require.Len(t, models.config.SafetySettings, 4)
	for _, setting := range models.config.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdBlockNone, setting.Threshold)
	}
	assert.Equal(t, genai.HarmCategoryHarassment, models.config.SafetySettings[0].Category)
	assert.Zero(t, models.config.MaxOutputTokens)
	assert.Empty(t, models.config.StopSequences)
}

func TestGenerate_GenerationConfig(t *testing.T) {
	models := &mockModels{response: reply("ok")}
	svc := newTestLLM(t, models)

	_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{MaxTokens: 64, StopWords: []string{"END"}})

	require.NoError(t, err)
	assert.EqualValues(t, 64, models.config.MaxOutputTokens)
	assert.Equal(t, []string{"END"}, models.config.StopSequences)
}

func TestGenerate_EmptyReplies(t *testing.T) {
	responses := map[string]*genai.GenerateContentResponse{
		"nil response": nil,
		"no candidates": {PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
			BlockReason: genai.BlockedReasonSafety,
		}},
		"no content": {Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}},
		"no parts":   {Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model"}}}},
	}

	for name, resp := range responses {
		t.Run(name, func(t *testing.T) {
			svc := newTestLLM(t, &mockModels{response: resp})

			text, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})

			require.NoError(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"quota", genai.APIError{Code: http.StatusTooManyRequests, Message: "Quota exceeded"}, domain.ErrQuotaExceeded},
		{"expired key", genai.APIError{Code: http.StatusBadRequest, Message: "API key expired. Please renew the API key."}, domain.ErrAPIKeyExpired},
		{"bad request", genai.APIError{Code: http.StatusBadRequest, Message: "Request contains an invalid argument."}, domain.ErrBadRequest},
		{"server error", genai.APIError{Code: http.StatusInternalServerError, Message: "Internal error"}, domain.ErrLLMCall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestLLM(t, &mockModels{err: tt.err})

			_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})

			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestPing(t *testing.T) {
	models := &mockModels{}
	svc := newTestLLM(t, models)

	require.NoError(t, svc.Ping(context.Background()))
	assert.Equal(t, []string{"models/gemini-1.5-flash-latest"}, models.gets)
}
