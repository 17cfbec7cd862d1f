package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
)

// RetrievalStore is a set of documents with a nearest-neighbour index over
// their embeddings.
type RetrievalStore interface {
	// Search embeds the query and returns up to k documents ordered by
	// ascending distance. A store without an index, or a query that fails
	// to embed, yields an empty result.
	Search(ctx context.Context, query string, k int) []domain.SearchResult

	// Documents returns the documents held by the store in ingestion order.
	Documents() []domain.Document

	// Size returns the number of indexed documents.
	Size() int

	// Searchable reports whether the store has a non-empty index.
	Searchable() bool
}

// Corpus binds the syllabus and textbook stores produced by one ingestion.
// Textbook may be nil when no textbooks were supplied.
type Corpus struct {
	ID         string
	CourseName string
	Syllabus   RetrievalStore
	Textbook   RetrievalStore
	BuiltAt    time.Time
}

// HasTextbook reports whether textbook checks can run against this corpus.
func (c *Corpus) HasTextbook() bool {
	return c != nil && c.Textbook != nil && c.Textbook.Searchable()
}

// IngestRequest names the source files for one ingestion.
type IngestRequest struct {
	// SyllabusPath is the syllabus JSON file.
	SyllabusPath string

	// TextbookPaths are optional textbook PDFs.
	TextbookPaths []string
}

// CorpusService turns source files into searchable stores.
type CorpusService interface {
	// SyllabusDocuments chunks a syllabus JSON document into documents
	// without embedding them.
	SyllabusDocuments(data []byte) ([]domain.Document, error)

	// TextbookDocuments extracts and chunks textbook PDFs into documents
	// without embedding them.
	TextbookDocuments(ctx context.Context, paths []string) ([]domain.Document, error)

	// Ingest chunks, embeds and indexes the requested files.
	Ingest(ctx context.Context, req IngestRequest) (*Corpus, error)
}
