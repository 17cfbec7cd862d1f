package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
)

// stubCorpusService returns a prepared corpus from Ingest.
type stubCorpusService struct {
	corpus *driving.Corpus
	err    error
	reqs   []driving.IngestRequest
}

func (s *stubCorpusService) SyllabusDocuments([]byte) ([]domain.Document, error) {
	return nil, nil
}

func (s *stubCorpusService) TextbookDocuments(context.Context, []string) ([]domain.Document, error) {
	return nil, nil
}

func (s *stubCorpusService) Ingest(_ context.Context, req driving.IngestRequest) (*driving.Corpus, error) {
	s.reqs = append(s.reqs, req)
	return s.corpus, s.err
}

// stubValidationService records the corpus it was asked to validate against.
type stubValidationService struct {
	seen []*driving.Corpus
}

func (s *stubValidationService) Validate(
	_ context.Context, corpus *driving.Corpus, questions []domain.Question,
) (*domain.ValidationReport, error) {
	s.seen = append(s.seen, corpus)
	return &domain.ValidationReport{CorpusID: corpus.ID, Verdicts: make([]domain.Verdict, len(questions))}, nil
}

func TestSession_BeforeIngest(t *testing.T) {
	s := NewSession(&stubCorpusService{}, &stubValidationService{})

	assert.Nil(t, s.Current())

	_, err := s.Validate(context.Background(), []domain.Question{{ID: "Q1", Text: "x"}})
	assert.ErrorIs(t, err, domain.ErrSyllabusNotProcessed)

	_, err = s.Search(context.Background(), domain.SourceTypeSyllabus, "sort", 3)
	assert.ErrorIs(t, err, domain.ErrNoCorpus)
}

func TestSession_IngestThenValidate(t *testing.T) {
	corpus := newTestCorpus(t, false)
	corpora := &stubCorpusService{corpus: corpus}
	validation := &stubValidationService{}
	s := NewSession(corpora, validation)
	req := driving.IngestRequest{SyllabusPath: "syllabus.json"}

	got, err := s.Ingest(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, corpus, got)
	assert.Same(t, corpus, s.Current())
	assert.Equal(t, []driving.IngestRequest{req}, corpora.reqs)

	report, err := s.Validate(context.Background(), []domain.Question{{ID: "Q1", Text: "x"}, {ID: "Q2", Text: "y"}})
	require.NoError(t, err)
	assert.Equal(t, "corpus-1", report.CorpusID)
	assert.Len(t, report.Verdicts, 2)
	require.Len(t, validation.seen, 1)
	assert.Same(t, corpus, validation.seen[0])
}

func TestSession_FailedIngestKeepsPreviousCorpus(t *testing.T) {
	corpus := newTestCorpus(t, false)
	corpora := &stubCorpusService{corpus: corpus}
	s := NewSession(corpora, &stubValidationService{})

	_, err := s.Ingest(context.Background(), driving.IngestRequest{})
	require.NoError(t, err)

	corpora.corpus, corpora.err = nil, errors.New("bad pdf")
	_, err = s.Ingest(context.Background(), driving.IngestRequest{})

	assert.EqualError(t, err, "bad pdf")
	assert.Same(t, corpus, s.Current())
}

func TestSession_Search(t *testing.T) {
	s := NewSession(&stubCorpusService{corpus: newTestCorpus(t, true)}, &stubValidationService{})
	_, err := s.Ingest(context.Background(), driving.IngestRequest{})
	require.NoError(t, err)

	results, err := s.Search(context.Background(), domain.SourceTypeSyllabus, "tree", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "tree traversal", results[0].Document.Content())

	results, err = s.Search(context.Background(), domain.SourceTypeTextbook, "hash", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "chapter on hash maps", results[0].Document.Content())

	_, err = s.Search(context.Background(), domain.SourceType("lecture_notes"), "x", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSession_Search_NoTextbook(t *testing.T) {
	s := NewSession(&stubCorpusService{corpus: newTestCorpus(t, false)}, &stubValidationService{})
	_, err := s.Ingest(context.Background(), driving.IngestRequest{})
	require.NoError(t, err)

	results, err := s.Search(context.Background(), domain.SourceTypeTextbook, "hash", 3)

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSession_ConcurrentUse(t *testing.T) {
	s := NewSession(&stubCorpusService{corpus: newTestCorpus(t, false)}, &stubValidationService{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Ingest(context.Background(), driving.IngestRequest{})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Search(context.Background(), domain.SourceTypeSyllabus, "sort", 1)
		}()
	}
	wg.Wait()

	assert.NotNil(t, s.Current())
}
