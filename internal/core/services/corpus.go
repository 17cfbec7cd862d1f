package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
	"github.com/custodia-labs/scrutiny/internal/logger"
	"github.com/custodia-labs/scrutiny/internal/postprocessors/chunker"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// CorpusService chunks, embeds and indexes syllabus and textbook files.
type CorpusService struct {
	gateway   *EmbeddingGateway
	extractor driven.PageExtractor
	newIndex  driven.VectorIndexFactory
	syllabus  *chunker.Processor
	textbook  *chunker.Processor
	readFile  func(string) ([]byte, error)
	now       func() time.Time
}

// NewCorpusService creates a corpus service.
// The extractor may be nil when textbooks are never ingested.
func NewCorpusService(
	gateway *EmbeddingGateway,
	extractor driven.PageExtractor,
	newIndex driven.VectorIndexFactory,
	chunking domain.ChunkingSettings,
) *CorpusService {
	return &CorpusService{
		gateway:   gateway,
		extractor: extractor,
		newIndex:  newIndex,
		syllabus: chunker.New(
			chunker.WithMinLength(chunking.SyllabusMin),
			chunker.WithMaxLength(chunking.SyllabusMax),
		),
		textbook: chunker.New(
			chunker.WithMinLength(chunking.TextbookMin),
			chunker.WithMaxLength(chunking.TextbookMax),
		),
		readFile: os.ReadFile,
		now:      time.Now,
	}
}

// SyllabusDocuments chunks a syllabus JSON document into documents.
func (s *CorpusService) SyllabusDocuments(data []byte) ([]domain.Document, error) {
	_, docs, err := s.syllabusDocuments(data)
	return docs, err
}

func (s *CorpusService) syllabusDocuments(data []byte) (*domain.Syllabus, []domain.Document, error) {
	syllabus, err := domain.ParseSyllabus(data)
	if err != nil {
		return nil, nil, err
	}

	var docs []domain.Document
	for _, unit := range syllabus.Units {
		content := strings.TrimSpace(unit.Content)
		if content == "" {
			logger.Debug("Skipping unit %q: no syllabus content", unit.Unit)
			continue
		}

		chunks := s.syllabus.Split(content)
		if len(chunks) == 0 {
			// Short units are still worth matching against.
			chunks = []string{content}
		}

		unitID := domain.NormaliseUnitID(unit.Unit)
		chunkPrefix := "syl_chunk_" + strings.ReplaceAll(unitID, "-", "")
		for i, chunk := range chunks {
			docs = append(docs, domain.NewDocument(chunk, map[string]string{
				domain.MetaSourceType: domain.SourceTypeSyllabus.String(),
				domain.MetaCourseName: syllabus.CourseName,
				domain.MetaUnitID:     unitID,
				domain.MetaUnitTitle:  unit.Title,
				domain.MetaChunkID:    fmt.Sprintf("%s_%d", chunkPrefix, i),
			}))
		}
		logger.Debug("Unit %s (%s): %d chunk(s)", unitID, unit.Title, len(chunks))
	}

	return syllabus, docs, nil
}

// TextbookDocuments extracts and chunks textbook PDFs into documents.
// All pages of one textbook are joined before chunking.
func (s *CorpusService) TextbookDocuments(ctx context.Context, paths []string) ([]domain.Document, error) {
	if len(paths) > 0 && s.extractor == nil {
		return nil, fmt.Errorf("%w: no textbook extractor configured", domain.ErrUnsupportedType)
	}

	var docs []domain.Document
	for _, path := range paths {
		if !s.supported(path) {
			return nil, fmt.Errorf("%w: textbook %s", domain.ErrUnsupportedType, filepath.Base(path))
		}

		pages, err := s.extractor.ExtractPages(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("extract textbook %s: %w", filepath.Base(path), err)
		}

		texts := make([]string, 0, len(pages))
		for _, page := range pages {
			if text := strings.TrimSpace(page.Text); text != "" {
				texts = append(texts, text)
			}
		}
		if len(texts) == 0 {
			logger.Warn("Textbook %s has no extractable text", filepath.Base(path))
			continue
		}

		name := filepath.Base(path)
		stem := unsafeNameChars.ReplaceAllString(strings.TrimSuffix(name, filepath.Ext(name)), "_")
		chunks := s.textbook.Split(strings.Join(texts, "\n\n"))
		for i, chunk := range chunks {
			docs = append(docs, domain.NewDocument(chunk, map[string]string{
				domain.MetaSourceType:   domain.SourceTypeTextbook.String(),
				domain.MetaDocumentName: name,
				domain.MetaChunkID:      fmt.Sprintf("tb_chunk_%s_%d", stem, i),
			}))
		}
		logger.Debug("Textbook %s: %d page(s), %d chunk(s)", name, len(texts), len(chunks))
	}

	return docs, nil
}

// Ingest builds a corpus from the requested files.
func (s *CorpusService) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.Corpus, error) {
	logger.Section("Syllabus Ingestion")

	data, err := s.readFile(req.SyllabusPath)
	if err != nil {
		return nil, fmt.Errorf("read syllabus: %w", err)
	}
	syllabus, syllabusDocs, err := s.syllabusDocuments(data)
	if err != nil {
		return nil, err
	}
	logger.Info("Syllabus %q: %d document(s)", syllabus.CourseName, len(syllabusDocs))

	syllabusStore, err := s.buildStore(ctx, domain.SourceTypeSyllabus, syllabusDocs)
	if err != nil {
		return nil, err
	}

	corpus := &driving.Corpus{
		ID:         uuid.NewString(),
		CourseName: syllabus.CourseName,
		Syllabus:   syllabusStore,
		BuiltAt:    s.now(),
	}

	if len(req.TextbookPaths) > 0 {
		logger.Section("Textbook Ingestion")
		textbookDocs, err := s.TextbookDocuments(ctx, req.TextbookPaths)
		if err != nil {
			return nil, err
		}
		logger.Info("Textbooks: %d file(s), %d document(s)", len(req.TextbookPaths), len(textbookDocs))

		textbookStore, err := s.buildStore(ctx, domain.SourceTypeTextbook, textbookDocs)
		if err != nil {
			return nil, err
		}
		corpus.Textbook = textbookStore
	}

	return corpus, nil
}

func (s *CorpusService) buildStore(
	ctx context.Context, source domain.SourceType, docs []domain.Document,
) (*RetrievalStore, error) {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content()
	}

	embeddings, err := s.gateway.Embed(ctx, texts, driven.TaskRetrievalDocument)
	if err != nil {
		return nil, fmt.Errorf("embed %s documents: %w", source, err)
	}

	store, err := BuildRetrievalStore(source, docs, embeddings, s.newIndex, s.gateway)
	if err != nil {
		return nil, fmt.Errorf("build %s index: %w", source, err)
	}
	return store, nil
}

func (s *CorpusService) supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range s.extractor.SupportedExtensions() {
		if ext == e {
			return true
		}
	}
	return false
}
