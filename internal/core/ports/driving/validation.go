package driving

import (
	"context"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
)

// ValidationService scrutinises question papers against a corpus.
type ValidationService interface {
	// Validate checks every non-blank question in order. Any failure that
	// aborts the run is returned as an error and no partial report is
	// produced.
	Validate(ctx context.Context, corpus *Corpus, questions []domain.Question) (*domain.ValidationReport, error)
}

// SessionService holds the current corpus for long-lived surfaces such as
// the HTTP and MCP servers. Calls are serialised.
type SessionService interface {
	// Ingest replaces the current corpus with a freshly built one.
	Ingest(ctx context.Context, req IngestRequest) (*Corpus, error)

	// Validate checks questions against the current corpus.
	Validate(ctx context.Context, questions []domain.Question) (*domain.ValidationReport, error)

	// Search queries one of the current corpus stores.
	Search(ctx context.Context, source domain.SourceType, query string, k int) ([]domain.SearchResult, error)

	// Current returns the current corpus, or nil before the first ingestion.
	Current() *Corpus
}
