package mcp

import (
	"context"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
)

// mockSession is a mock implementation of driving.SessionService.
type mockSession struct {
	corpus  *driving.Corpus
	results []domain.SearchResult
	report  *domain.ValidationReport
	err     error

	ingested  driving.IngestRequest
	source    domain.SourceType
	limit     int
	questions []domain.Question
}

func (m *mockSession) Ingest(_ context.Context, req driving.IngestRequest) (*driving.Corpus, error) {
	m.ingested = req
	if m.err != nil {
		return nil, m.err
	}
	return m.corpus, nil
}

func (m *mockSession) Validate(_ context.Context, questions []domain.Question) (*domain.ValidationReport, error) {
	m.questions = questions
	return m.report, m.err
}

func (m *mockSession) Search(
	_ context.Context, source domain.SourceType, _ string, k int,
) ([]domain.SearchResult, error) {
	m.source = source
	m.limit = k
	return m.results, m.err
}

func (m *mockSession) Current() *driving.Corpus {
	return m.corpus
}

// mockStore is a mock implementation of driving.RetrievalStore.
type mockStore struct {
	docs []domain.Document
}

func (m *mockStore) Search(context.Context, string, int) []domain.SearchResult {
	return nil
}

func (m *mockStore) Documents() []domain.Document {
	return m.docs
}

func (m *mockStore) Size() int {
	return len(m.docs)
}

func (m *mockStore) Searchable() bool {
	return len(m.docs) > 0
}

func syllabusDoc(id, content string) domain.Document {
	return domain.NewDocument(content, map[string]string{
		domain.MetaChunkID:    id,
		domain.MetaSourceType: domain.SourceTypeSyllabus.String(),
		domain.MetaUnitID:     "UNIT-1",
	})
}

func testCorpus() *driving.Corpus {
	return &driving.Corpus{
		ID:         "corpus-1",
		CourseName: "Data Structures",
		Syllabus: &mockStore{docs: []domain.Document{
			syllabusDoc("syl_chunk_UNIT1_0", "sorting algorithms"),
			syllabusDoc("syl_chunk_UNIT1_1", "tree traversal"),
		}},
	}
}
