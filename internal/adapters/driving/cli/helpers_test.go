package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrutiny/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
	"github.com/custodia-labs/scrutiny/internal/core/services"
)

// mockCorpusService records requests and returns canned documents.
type mockCorpusService struct {
	ingested      []driving.IngestRequest
	textbookPaths []string
	corpus        *driving.Corpus
	docs          []domain.Document
	err           error
}

func (m *mockCorpusService) SyllabusDocuments(_ []byte) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockCorpusService) TextbookDocuments(_ context.Context, paths []string) ([]domain.Document, error) {
	m.textbookPaths = paths
	return m.docs, m.err
}

func (m *mockCorpusService) Ingest(_ context.Context, req driving.IngestRequest) (*driving.Corpus, error) {
	m.ingested = append(m.ingested, req)
	if m.err != nil {
		return nil, m.err
	}
	if m.corpus != nil {
		return m.corpus, nil
	}
	return &driving.Corpus{ID: "corpus-1", CourseName: "Algorithms"}, nil
}

// mockValidationService marks every question in syllabus.
type mockValidationService struct {
	questions []domain.Question
	err       error
}

func (m *mockValidationService) Validate(
	_ context.Context, corpus *driving.Corpus, questions []domain.Question,
) (*domain.ValidationReport, error) {
	m.questions = questions
	if m.err != nil {
		return nil, m.err
	}
	report := &domain.ValidationReport{RunID: "run-1", CorpusID: corpus.ID}
	for _, q := range questions {
		if q.IsBlank() {
			continue
		}
		report.Verdicts = append(report.Verdicts, domain.Verdict{
			QuestionID:        q.ID,
			QuestionText:      q.Text,
			SyllabusStatus:    domain.SyllabusIn,
			SyllabusReasoning: "Covered by UNIT-1.",
			TextbookStatus:    domain.TextbookNotApplicable,
		})
	}
	return report, nil
}

type testServices struct {
	corpus     *mockCorpusService
	validation *mockValidationService
	settings   *services.SettingsService
	store      *memory.ConfigStore
}

// setupTestServices installs mocks and resets command flags.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	store := memory.NewConfigStore(nil)
	ts := &testServices{
		corpus:     &mockCorpusService{},
		validation: &mockValidationService{},
		settings:   services.NewSettingsService(store, nil),
		store:      store,
	}
	SetServices(&Services{
		Settings:   ts.settings,
		Corpus:     ts.corpus,
		Validation: ts.validation,
		Server:     domain.DefaultAppSettings().Server,
	})

	t.Cleanup(func() {
		SetServices(nil)
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return ts
}

func resetFlags() {
	validateSyllabus, validateQuestions, validateTextbooks = "", "", nil
	validateJSON, validateInteractive = false, false
	chunksSyllabus, chunksTextbooks, chunksJSON = "", nil, false
	serveAddr = ""
	verbose, configDir, overrides = false, "", nil
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const testPaper = `[
  {"question": "Q1", "text": "Explain quicksort."},
  {"question": "Q2", "text": "   "},
  {"text": "Define a binary heap."}
]`
