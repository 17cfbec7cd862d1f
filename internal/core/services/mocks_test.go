package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors come from the vectors map, otherwise from keywordVector.
type mockEmbeddingService struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	batchErr map[int]error // keyed by call number, starting at 1
	queryErr error
	short    bool // return one vector fewer than requested
	calls    [][]string
	tasks    []driven.TaskType
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string, task driven.TaskType) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, append([]string(nil), texts...))
	m.tasks = append(m.tasks, task)

	if task == driven.TaskRetrievalQuery && m.queryErr != nil {
		return nil, m.queryErr
	}
	if err := m.batchErr[len(m.calls)]; err != nil {
		return nil, err
	}

	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		if v, ok := m.vectors[text]; ok {
			out = append(out, v)
			continue
		}
		out = append(out, keywordVector(text))
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(vocabulary)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// vocabulary gives keywordVector one dimension per topic word.
var vocabulary = []string{"sort", "tree", "graph", "hash", "quantum", "network"}

// keywordVector counts vocabulary words in text.
func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(vocabulary))
	for i, word := range vocabulary {
		v[i] = float32(strings.Count(lower, word))
	}
	return v
}

// mockLLMService implements driven.LLMService for testing.
// Each call consumes the next scripted reply.
type mockLLMService struct {
	mu      sync.Mutex
	replies []mockReply
	prompts []string
	opts    []driven.GenerateOptions
}

type mockReply struct {
	text string
	err  error
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if len(m.replies) == 0 {
		return "", nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply.text, reply.err
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockExtractor implements driven.PageExtractor for testing.
type mockExtractor struct {
	pages map[string][]driven.Page
	err   error
}

func (m *mockExtractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

func (m *mockExtractor) ExtractPages(_ context.Context, path string) ([]driven.Page, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pages[path], nil
}

// recordingSleep records requested pauses without sleeping.
type recordingSleep struct {
	mu     sync.Mutex
	pauses []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pauses = append(r.pauses, d)
	return ctx.Err()
}

func (r *recordingSleep) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pauses)
}
