package domain

import "time"

// SyllabusStatus is the outcome of the syllabus coverage check.
type SyllabusStatus string

// Syllabus statuses.
const (
	SyllabusIn    SyllabusStatus = "IN_SYLLABUS"
	SyllabusOut   SyllabusStatus = "OUT_OF_SYLLABUS"
	SyllabusError SyllabusStatus = "ERROR"
)

// String returns the string representation.
func (s SyllabusStatus) String() string {
	return string(s)
}

// TextbookStatus is the outcome of the textbook coverage check.
type TextbookStatus string

// Textbook statuses.
const (
	TextbookYes           TextbookStatus = "YES_IN_TEXTBOOK"
	TextbookNo            TextbookStatus = "NO_IN_PROVIDED_TEXTBOOK_EXCERPTS"
	TextbookNotApplicable TextbookStatus = "NOT_APPLICABLE"
	TextbookError         TextbookStatus = "ERROR"
)

// String returns the string representation.
func (s TextbookStatus) String() string {
	return string(s)
}

// Verdict is the scrutiny result for one question.
type Verdict struct {
	QuestionID        string         `json:"question_id"`
	QuestionText      string         `json:"question_text"`
	SyllabusStatus    SyllabusStatus `json:"syllabus_status"`
	SyllabusReasoning string         `json:"syllabus_reasoning"`
	TextbookStatus    TextbookStatus `json:"textbook_status"`
	TextbookReasoning string         `json:"textbook_reasoning"`
}

// JudgmentState tracks a question through the scrutiny pipeline.
type JudgmentState string

// Judgment states.
const (
	JudgmentPending         JudgmentState = "PENDING"
	JudgmentSyllabusChecked JudgmentState = "SYLLABUS_CHECKED"
	JudgmentTextbookChecked JudgmentState = "TEXTBOOK_CHECKED"
	JudgmentDone            JudgmentState = "DONE"
	JudgmentFailed          JudgmentState = "FAILED"
)

// IsTerminal returns true once no further transitions are possible.
func (s JudgmentState) IsTerminal() bool {
	return s == JudgmentDone || s == JudgmentFailed
}

// ValidationReport collects the verdicts of one validation run.
type ValidationReport struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// CorpusID identifies the corpus the questions were checked against.
	CorpusID string `json:"corpus_id"`

	// Verdicts holds one entry per non-blank question, in paper order.
	Verdicts []Verdict `json:"results"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
