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

// mockModels records calls and replays canned responses.
type mockModels struct {
	model    string
	contents []*genai.Content
	config   *genai.EmbedContentConfig
	calls    int
	gets     []string

	response *genai.EmbedContentResponse
	err      error
}

func (m *mockModels) EmbedContent(_ context.Context, model string, contents []*genai.Content,
	config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	m.calls++
	m.model = model
	m.contents = contents
	m.config = config
	return m.response, m.err
}

func (m *mockModels) GenerateContent(context.Context, string, []*genai.Content,
	*genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, nil
}

func (m *mockModels) Get(_ context.Context, model string, _ *genai.GetModelConfig) (*genai.Model, error) {
	m.gets = append(m.gets, model)
	if m.err != nil {
		return nil, m.err
	}
	return &genai.Model{Name: model}, nil
}

func newTestService(t *testing.T, models *mockModels) *EmbeddingService {
	t.Helper()
	svc, err := NewEmbeddingService(context.Background(), Config{
		Client:    googleai.ClientConfig{Models: models},
		RateLimit: &googleai.RateLimitConfig{},
	})
	require.NoError(t, err)
	return svc
}

func embeddings(vectors ...[]float32) *genai.EmbedContentResponse {
	resp := &genai.EmbedContentResponse{}
	for _, v := range vectors {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{Values: v})
	}
	return resp
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := newTestService(t, &mockModels{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.NoError(t, svc.Close())
}

func TestNewEmbeddingService_RequiresKey(t *testing.T) {
	_, err := NewEmbeddingService(context.Background(), Config{})

	assert.ErrorIs(t, err, googleai.ErrMissingAPIKey)
}

func TestNewEmbeddingService_WithKey(t *testing.T) {
	svc, err := NewEmbeddingService(context.Background(), Config{
		Client: googleai.ClientConfig{APIKey: "test-key"},
		Model:  "text-embedding-004",
	})

	require.NoError(t, err)
	assert.Equal(t, "models/text-embedding-004", svc.ModelName())
}

func TestEmbedBatch(t *testing.T) {
	models := &mockModels{response: embeddings([]float32{0.5, 1}, []float32{0.25, -1})}
	svc := newTestService(t, models)

	vectors, err := svc.EmbedBatch(context.Background(), []string{"sorting", "trees"}, driven.TaskRetrievalDocument)

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.5, 1}, {0.25, -1}}, vectors)

	assert.Equal(t, 1, models.calls)
	assert.Equal(t, "models/text-embedding-004", models.model)
	require.NotNil(t, models.config)
	assert.Equal(t, "RETRIEVAL_DOCUMENT", models.config.TaskType)
	require.Len(t, models.contents, 2)
	assert.Equal(t, "sorting", models.contents[0].Parts[0].Text)
	assert.Equal(t, "trees", models.contents[1].Parts[0].Text)
}

func TestEmbedBatch_QueryTask(t *testing.T) {
	models := &mockModels{response: embeddings([]float32{1})}
	svc := newTestService(t, models)

	_, err := svc.EmbedBatch(context.Background(), []string{"what is a heap?"}, driven.TaskRetrievalQuery)

	require.NoError(t, err)
	assert.Equal(t, "RETRIEVAL_QUERY", models.config.TaskType)
}

func TestEmbedBatch_Empty(t *testing.T) {
	models := &mockModels{}
	svc := newTestService(t, models)

	vectors, err := svc.EmbedBatch(context.Background(), nil, driven.TaskRetrievalQuery)

	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Zero(t, models.calls)
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	svc := newTestService(t, &mockModels{response: embeddings([]float32{1})})

	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"}, driven.TaskRetrievalDocument)

	assert.Error(t, err)
}

func TestEmbedBatch_NilResponse(t *testing.T) {
	svc := newTestService(t, &mockModels{})

	_, err := svc.EmbedBatch(context.Background(), []string{"a"}, driven.TaskRetrievalDocument)

	assert.Error(t, err)
}

func TestEmbedBatch_QuotaExceeded(t *testing.T) {
	svc := newTestService(t, &mockModels{
		err: genai.APIError{Code: http.StatusTooManyRequests, Message: "Resource has been exhausted", Status: "RESOURCE_EXHAUSTED"},
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"a"}, driven.TaskRetrievalDocument)

	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.False(t, svc.limiter.Allow(), "a 429 opens the backoff window")
}

func TestPing(t *testing.T) {
	models := &mockModels{}
	svc := newTestService(t, models)

	require.NoError(t, svc.Ping(context.Background()))
	assert.Equal(t, []string{"models/text-embedding-004"}, models.gets)
}

func TestPing_InvalidKey(t *testing.T) {
	svc := newTestService(t, &mockModels{
		err: genai.APIError{Code: http.StatusBadRequest, Message: "API key not valid. Please pass a valid API key.", Status: "INVALID_ARGUMENT"},
	})

	err := svc.Ping(context.Background())

	assert.ErrorIs(t, err, domain.ErrAPIKeyExpired)
}
