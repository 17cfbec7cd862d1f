package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
)

// Response tokens the LLM is instructed to lead with.
const (
	syllabusInToken  = "SYLLABUS_VERDICT: IN_SYLLABUS"
	syllabusOutToken = "SYLLABUS_VERDICT: OUT_OF_SYLLABUS"
	textbookYesToken = "TEXTBOOK_COVERAGE: YES_IN_TEXTBOOK"
	textbookNoToken  = "TEXTBOOK_COVERAGE: NO_IN_PROVIDED_TEXTBOOK_EXCERPTS"
	reasoningMarker  = "REASONING:"

	noReasoning   = "No reasoning provided"
	unparseable   = "Could not parse LLM response"
	ellipsis      = "..."
	sectionFormat = "Section %d: %s%s\n\n"
)

// ParseSyllabusVerdict maps an LLM response to a syllabus status and reasoning.
func ParseSyllabusVerdict(response string) (domain.SyllabusStatus, string) {
	response = strings.TrimSpace(response)
	switch {
	case strings.HasPrefix(response, syllabusInToken):
		return domain.SyllabusIn, extractReasoning(response)
	case strings.HasPrefix(response, syllabusOutToken):
		return domain.SyllabusOut, extractReasoning(response)
	default:
		return domain.SyllabusError, unparseable
	}
}

// ParseTextbookVerdict maps an LLM response to a textbook status and reasoning.
func ParseTextbookVerdict(response string) (domain.TextbookStatus, string) {
	response = strings.TrimSpace(response)
	switch {
	case strings.HasPrefix(response, textbookYesToken):
		return domain.TextbookYes, extractReasoning(response)
	case strings.HasPrefix(response, textbookNoToken):
		return domain.TextbookNo, extractReasoning(response)
	default:
		return domain.TextbookError, unparseable
	}
}

func extractReasoning(response string) string {
	_, after, found := strings.Cut(response, reasoningMarker)
	if !found {
		return noReasoning
	}
	return strings.TrimSpace(after)
}

// FormatContext renders retrieved documents as the context block of a prompt.
// Each document is trimmed and cut to maxChars characters.
func FormatContext(results []domain.SearchResult, source domain.SourceType, maxChars int) string {
	label := source.Label()
	if len(results) == 0 {
		return fmt.Sprintf("No relevant %s sections found during retrieval.", label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Relevant %s Sections ---\n", label)
	for i, r := range results {
		fmt.Fprintf(&b, sectionFormat, i+1, truncate(strings.TrimSpace(r.Document.Content()), maxChars), ellipsis)
	}
	return strings.TrimSpace(b.String())
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// judgment carries one question through the syllabus and textbook checks.
type judgment struct {
	state   domain.JudgmentState
	verdict domain.Verdict
	err     error
}

func newJudgment(q domain.Question) *judgment {
	return &judgment{
		state: domain.JudgmentPending,
		verdict: domain.Verdict{
			QuestionID:     q.ID,
			QuestionText:   q.Text,
			TextbookStatus: domain.TextbookNotApplicable,
		},
	}
}

// fail moves the judgment to the failed state.
func (j *judgment) fail(err error) {
	j.state = domain.JudgmentFailed
	j.err = err
}
