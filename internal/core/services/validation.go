package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driven"
	"github.com/custodia-labs/scrutiny/internal/core/ports/driving"
	"github.com/custodia-labs/scrutiny/internal/logger"
)

// Ensure ValidationService implements the interfaces.
var (
	_ driving.ValidationService = (*ValidationService)(nil)
	_ driven.PromptStoreAware   = (*ValidationService)(nil)
)

// ValidationService runs the syllabus and textbook checks for each
// question of a paper.
//
// Questions are processed one at a time with a fixed pause after every
// LLM call. The run stops at the first error that cannot be confined to
// a single check.
type ValidationService struct {
	llm          driven.LLMService
	promptStore  driven.PromptStore
	topK         int
	contextChars int
	callDelay    time.Duration
	sleep        sleepFunc
	now          func() time.Time
}

// ValidationOption configures a ValidationService.
type ValidationOption func(*ValidationService)

// WithTopK sets the number of documents retrieved per check.
func WithTopK(k int) ValidationOption {
	return func(s *ValidationService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithContextChars sets the per-document truncation of prompt context.
func WithContextChars(n int) ValidationOption {
	return func(s *ValidationService) {
		if n > 0 {
			s.contextChars = n
		}
	}
}

// WithCallDelay sets the pause after every LLM call.
func WithCallDelay(d time.Duration) ValidationOption {
	return func(s *ValidationService) {
		if d >= 0 {
			s.callDelay = d
		}
	}
}

// withCallSleep replaces the pause implementation in tests.
func withCallSleep(fn sleepFunc) ValidationOption {
	return func(s *ValidationService) {
		s.sleep = fn
	}
}

// NewValidationService creates a validation service.
func NewValidationService(llm driven.LLMService, opts ...ValidationOption) *ValidationService {
	s := &ValidationService{
		llm:          llm,
		topK:         domain.DefaultTopK,
		contextChars: domain.DefaultContextChars,
		callDelay:    domain.DefaultCallDelay,
		sleep:        sleepContext,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *ValidationService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Validate checks every non-blank question against the corpus.
func (s *ValidationService) Validate(
	ctx context.Context, corpus *driving.Corpus, questions []domain.Question,
) (*domain.ValidationReport, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if corpus == nil || corpus.Syllabus == nil || !corpus.Syllabus.Searchable() {
		return nil, domain.ErrSyllabusNotProcessed
	}

	logger.Section("Validation")
	report := &domain.ValidationReport{
		RunID:     uuid.NewString(),
		CorpusID:  corpus.ID,
		Verdicts:  make([]domain.Verdict, 0, len(questions)),
		StartedAt: s.now(),
	}
	logger.Info("Run %s: %d question(s), textbook checks %t", report.RunID, len(questions), corpus.HasTextbook())

	for _, q := range questions {
		if q.IsBlank() {
			logger.Debug("Skipping %s: blank question text", q.ID)
			continue
		}

		j := s.judge(ctx, corpus, q)
		if j.state == domain.JudgmentFailed {
			logger.Warn("Aborting run %s at %s: %v", report.RunID, q.ID, j.err)
			return nil, fmt.Errorf("question %s: %w", q.ID, j.err)
		}
		report.Verdicts = append(report.Verdicts, j.verdict)
	}

	report.FinishedAt = s.now()
	logger.Info("Run %s complete: %d verdict(s)", report.RunID, len(report.Verdicts))
	return report, nil
}

// judge drives one question to a terminal state.
func (s *ValidationService) judge(ctx context.Context, corpus *driving.Corpus, q domain.Question) *judgment {
	j := newJudgment(q)

	for !j.state.IsTerminal() {
		switch j.state {
		case domain.JudgmentPending:
			s.checkSyllabus(ctx, corpus.Syllabus, j)
		case domain.JudgmentSyllabusChecked:
			if j.verdict.SyllabusStatus != domain.SyllabusIn || !corpus.HasTextbook() {
				j.state = domain.JudgmentDone
				continue
			}
			s.checkTextbook(ctx, corpus.Textbook, j)
		case domain.JudgmentTextbookChecked:
			j.state = domain.JudgmentDone
		}
	}

	logger.Debug("%s: %s / %s", q.ID, j.verdict.SyllabusStatus, j.verdict.TextbookStatus)
	return j
}

func (s *ValidationService) checkSyllabus(ctx context.Context, store driving.RetrievalStore, j *judgment) {
	results := store.Search(ctx, j.verdict.QuestionText, s.topK)
	block := FormatContext(results, domain.SourceTypeSyllabus, s.contextChars)
	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptSyllabusCheck, defaultSyllabusPrompt), j.verdict.QuestionText, block)

	response, err := s.generate(ctx, prompt)
	if err != nil {
		j.fail(err)
		return
	}

	j.verdict.SyllabusStatus, j.verdict.SyllabusReasoning = ParseSyllabusVerdict(response)
	j.state = domain.JudgmentSyllabusChecked
}

func (s *ValidationService) checkTextbook(ctx context.Context, store driving.RetrievalStore, j *judgment) {
	results := store.Search(ctx, j.verdict.QuestionText, s.topK)
	block := FormatContext(results, domain.SourceTypeTextbook, s.contextChars)
	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptTextbookCheck, defaultTextbookPrompt), j.verdict.QuestionText, block)

	response, err := s.generate(ctx, prompt)
	if err != nil {
		kind := domain.LLMErrorKindOf(err)
		if kind.Aborts() || ctx.Err() != nil {
			j.fail(err)
			return
		}
		j.verdict.TextbookStatus = domain.TextbookError
		j.verdict.TextbookReasoning = "API error: " + kind.String()
		j.state = domain.JudgmentTextbookChecked
		return
	}

	j.verdict.TextbookStatus, j.verdict.TextbookReasoning = ParseTextbookVerdict(response)
	j.state = domain.JudgmentTextbookChecked
}

// generate calls the LLM and pauses afterwards. Errors are classified;
// a blank response is reported as domain.ErrEmptyResponse.
func (s *ValidationService) generate(ctx context.Context, prompt string) (string, error) {
	response, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		SafetySettings: driven.PermissiveSafetySettings(),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", domain.ClassifyLLMError(err)
	}

	if err := s.sleep(ctx, s.callDelay); err != nil {
		return "", err
	}

	if strings.TrimSpace(response) == "" {
		return "", domain.ErrEmptyResponse
	}
	return response, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *ValidationService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
