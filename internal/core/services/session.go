package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// Session owns the corpus most recently ingested by a long-lived surface.
// Ingestion, search and validation are serialised: a validation never
// observes a half-built corpus and two ingestions never interleave.
type Session struct {
	mu         sync.Mutex
	corpora    driving.CorpusService
	validation driving.ValidationService
	current    *driving.Corpus
}

// NewSession creates an empty session.
func NewSession(corpora driving.CorpusService, validation driving.ValidationService) *Session {
	return &Session{
		corpora:    corpora,
		validation: validation,
	}
}

// Ingest replaces the current corpus. On failure the previous corpus is kept.
func (s *Session) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.Corpus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	corpus, err := s.corpora.Ingest(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.current != nil {
		logger.Debug("Replacing corpus %s with %s", s.current.ID, corpus.ID)
	}
	s.current = corpus
	return corpus, nil
}

// Validate checks questions against the current corpus.
func (s *Session) Validate(ctx context.Context, questions []domain.Question) (*domain.ValidationReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, domain.ErrSyllabusNotProcessed
	}
	return s.validation.Validate(ctx, s.current, questions)
}

// Search queries the syllabus or textbook store of the current corpus.
func (s *Session) Search(
	ctx context.Context, source domain.SourceType, query string, k int,
) ([]domain.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, domain.ErrNoCorpus
	}

	var store driving.RetrievalStore
	switch source {
	case domain.SourceTypeSyllabus:
		store = s.current.Syllabus
	case domain.SourceTypeTextbook:
		store = s.current.Textbook
	default:
		return nil, fmt.Errorf("%w: source %q", domain.ErrInvalidInput, source)
	}
	if store == nil {
		return []domain.SearchResult{}, nil
	}
	return store.Search(ctx, query, k), nil
}

// Current returns the current corpus, or nil before the first ingestion.
func (s *Session) Current() *driving.Corpus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
