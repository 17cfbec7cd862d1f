// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// TaskType tells the embedding model how the vector will be used.
type TaskType string

// Embedding task types.
const (
	// TaskRetrievalDocument marks text that is stored in an index.
	TaskRetrievalDocument TaskType = "RETRIEVAL_DOCUMENT"

	// TaskRetrievalQuery marks text used to query an index.
	TaskRetrievalQuery TaskType = "RETRIEVAL_QUERY"
)

// String returns the string representation.
func (t TaskType) String() string {
	return string(t)
}

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which stores and searches vectors.
// EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - Gemini (text-embedding-004)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// EmbedBatch generates one embedding per text in a single request where
	// the provider allows it. The result has the same length and order as
	// texts; a failed request returns an error for the whole batch.
	EmbedBatch(ctx context.Context, texts []string, task TaskType) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768).
	// This is determined by the model and must match VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
