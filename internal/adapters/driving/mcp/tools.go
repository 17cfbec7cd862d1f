package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
)

// defaultSearchLimit matches the retrieval depth used by validation.
const defaultSearchLimit = domain.DefaultTopK

// LoadCorpusInput is the input schema for the load_corpus tool.
type LoadCorpusInput struct {
	SyllabusPath  string   `json:"syllabus_path" jsonschema:"path to the syllabus JSON file"`
	TextbookPaths []string `json:"textbook_paths,omitempty" jsonschema:"paths to textbook PDF files"`
}

// CorpusOutput summarises a loaded corpus.
type CorpusOutput struct {
	CorpusID     string `json:"corpus_id"`
	CourseName   string `json:"course_name"`
	SyllabusDocs int    `json:"syllabus_docs"`
	TextbookDocs int    `json:"textbook_docs"`
}

// SearchInput is the input schema for the search_corpus tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"the text to find similar sections for"`
	Source string `json:"source,omitempty" jsonschema:"syllabus or textbook (default syllabus)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of sections to return (default 3)"`
}

// SearchOutput is the output schema for the search_corpus tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved section.
type SearchResultOutput struct {
	ChunkID      string  `json:"chunk_id"`
	SourceType   string  `json:"source_type"`
	UnitID       string  `json:"unit_id,omitempty"`
	DocumentName string  `json:"document_name,omitempty"`
	Distance     float64 `json:"distance"`
	Content      string  `json:"content"`
}

// ValidateInput is the input schema for the validate_questions tool.
// Questions given inline take precedence over a question paper path.
type ValidateInput struct {
	QuestionPaperPath string          `json:"question_paper_path,omitempty" jsonschema:"path to a question paper JSON file"`
	Questions         []QuestionInput `json:"questions,omitempty" jsonschema:"questions to check"`
}

// QuestionInput is one inline question.
type QuestionInput struct {
	ID   string `json:"id,omitempty" jsonschema:"question identifier (default Q<n>)"`
	Text string `json:"text" jsonschema:"the question text"`
}

// ValidateOutput is the output schema for the validate_questions tool.
type ValidateOutput struct {
	RunID   string           `json:"run_id"`
	Results []domain.Verdict `json:"results"`
	Count   int              `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_corpus",
		Description: "Chunk, embed and index a syllabus and optional textbooks, replacing the current corpus",
	}, s.handleLoadCorpus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_corpus",
		Description: "Find the syllabus or textbook sections closest to a piece of text",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_questions",
		Description: "Check exam questions against the syllabus and textbooks of the current corpus",
	}, s.handleValidate)
}

func (s *Server) handleLoadCorpus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadCorpusInput,
) (*mcp.CallToolResult, CorpusOutput, error) {
	if input.SyllabusPath == "" {
		return nil, CorpusOutput{}, fmt.Errorf("%w: syllabus_path is required", domain.ErrInvalidInput)
	}

	corpus, err := s.ports.Session.Ingest(ctx, driving.IngestRequest{
		SyllabusPath:  input.SyllabusPath,
		TextbookPaths: input.TextbookPaths,
	})
	if err != nil {
		return nil, CorpusOutput{}, err
	}

	return nil, summarise(corpus), nil
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	source := domain.SourceType(input.Source)
	if source == "" {
		source = domain.SourceTypeSyllabus
	}

	results, err := s.ports.Session.Search(ctx, source, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		doc := results[i].Document
		output.Results[i] = SearchResultOutput{
			ChunkID:      doc.ChunkID(),
			SourceType:   doc.SourceType().String(),
			UnitID:       doc.Meta(domain.MetaUnitID),
			DocumentName: doc.Meta(domain.MetaDocumentName),
			Distance:     results[i].Distance,
			Content:      doc.Content(),
		}
	}

	return nil, output, nil
}

func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	questions, err := questionsFrom(input)
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	report, err := s.ports.Session.Validate(ctx, questions)
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	return nil, ValidateOutput{
		RunID:   report.RunID,
		Results: report.Verdicts,
		Count:   len(report.Verdicts),
	}, nil
}

func questionsFrom(input ValidateInput) ([]domain.Question, error) {
	if len(input.Questions) > 0 {
		questions := make([]domain.Question, len(input.Questions))
		for i, q := range input.Questions {
			id := q.ID
			if id == "" {
				id = fmt.Sprintf("Q%d", i+1)
			}
			questions[i] = domain.Question{ID: id, Text: q.Text}
		}
		return questions, nil
	}

	if input.QuestionPaperPath == "" {
		return nil, fmt.Errorf("%w: questions or question_paper_path is required", domain.ErrInvalidInput)
	}
	data, err := os.ReadFile(input.QuestionPaperPath)
	if err != nil {
		return nil, fmt.Errorf("read question paper: %w", err)
	}
	return domain.ParseQuestionPaper(data)
}

func summarise(corpus *driving.Corpus) CorpusOutput {
	out := CorpusOutput{
		CorpusID:   corpus.ID,
		CourseName: corpus.CourseName,
	}
	if corpus.Syllabus != nil {
		out.SyllabusDocs = corpus.Syllabus.Size()
	}
	if corpus.Textbook != nil {
		out.TextbookDocs = corpus.Textbook.Size()
	}
	return out
}
