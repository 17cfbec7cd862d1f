package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

// Ensure RetrievalStore implements the interface.
var _ driving.RetrievalStore = (*RetrievalStore)(nil)

// queryEmbedder embeds retrieval queries.
type queryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// RetrievalStore binds a vector index to the documents whose embeddings
// it holds. Document i of the store is vector i of the index.
type RetrievalStore struct {
	source    domain.SourceType
	documents []domain.Document
	index     driven.VectorIndex
	embedder  queryEmbedder
}

// BuildRetrievalStore pairs documents with embeddings and indexes the
// valid pairs.
//
// A pair is valid when its embedding is present, non-empty and has the
// same dimension as the first valid embedding. Invalid pairs are dropped
// and the surviving documents keep their relative order. When no pair is
// valid the store holds no documents and no index, so it is not
// searchable; this is not an error.
func BuildRetrievalStore(
	source domain.SourceType,
	documents []domain.Document,
	embeddings [][]float32,
	newIndex driven.VectorIndexFactory,
	embedder queryEmbedder,
) (*RetrievalStore, error) {
	store := &RetrievalStore{source: source, embedder: embedder}

	var vectors [][]float32
	dimension := 0
	for i, doc := range documents {
		if i >= len(embeddings) || len(embeddings[i]) == 0 {
			continue
		}
		if dimension == 0 {
			dimension = len(embeddings[i])
		}
		if len(embeddings[i]) != dimension {
			logger.Warn("Skipping %s document %q: embedding dimension %d, index dimension %d",
				source, doc.ChunkID(), len(embeddings[i]), dimension)
			continue
		}
		store.documents = append(store.documents, doc)
		vectors = append(vectors, embeddings[i])
	}

	if len(vectors) == 0 {
		logger.Warn("No valid %s embeddings out of %d documents; store is not searchable", source, len(documents))
		return store, nil
	}

	index, err := newIndex(dimension)
	if err != nil {
		return nil, err
	}
	if err := index.Add(vectors); err != nil {
		return nil, err
	}
	store.index = index

	logger.Info("Built %s index: %d of %d documents, dimension %d", source, index.Len(), len(documents), dimension)
	return store, nil
}

// Source returns the kind of documents held by the store.
func (s *RetrievalStore) Source() domain.SourceType {
	return s.source
}

// Documents returns the store's documents in ingestion order.
func (s *RetrievalStore) Documents() []domain.Document {
	docs := make([]domain.Document, len(s.documents))
	copy(docs, s.documents)
	return docs
}

// Size returns the number of indexed documents.
func (s *RetrievalStore) Size() int {
	if s == nil || s.index == nil {
		return 0
	}
	return s.index.Len()
}

// Searchable reports whether the store has a non-empty index.
func (s *RetrievalStore) Searchable() bool {
	return s.Size() > 0
}

// Search returns up to k documents nearest to query, nearest first.
// Failures to embed the query or search the index are logged and yield
// an empty result.
func (s *RetrievalStore) Search(ctx context.Context, query string, k int) []domain.SearchResult {
	if !s.Searchable() || k <= 0 || strings.TrimSpace(query) == "" {
		return []domain.SearchResult{}
	}
	if k > s.index.Len() {
		k = s.index.Len()
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed for %s search: %v", s.source, err)
		return []domain.SearchResult{}
	}
	if len(vector) != s.index.Dimension() {
		logger.Warn("Query embedding dimension %d does not match %s index dimension %d",
			len(vector), s.source, s.index.Dimension())
		return []domain.SearchResult{}
	}

	hits, err := s.index.Search(vector, k)
	if err != nil {
		logger.Warn("%s index search failed: %v", s.source.Label(), err)
		return []domain.SearchResult{}
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(s.documents) {
			continue
		}
		results = append(results, domain.SearchResult{
			Document: s.documents[hit.Position],
			Distance: hit.Distance,
		})
	}
	logger.Debug("%s search returned %d result(s) for k=%d", s.source.Label(), len(results), k)
	return results
}
