package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Question is a single entry of a question paper.
type Question struct {
	// ID is the question label, e.g. "Q1" or "2(b)".
	ID string `json:"question"`

	// Text is the question body.
	Text string `json:"text"`
}

// IsBlank reports whether the question has no text to scrutinise.
func (q Question) IsBlank() bool {
	return strings.TrimSpace(q.Text) == ""
}

// ParseQuestionPaper decodes a question paper JSON array.
// Questions without an ID are labelled by position (Q1, Q2, ...).
func ParseQuestionPaper(data []byte) ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("%w: question paper JSON: %v", ErrInvalidInput, err)
	}
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = fmt.Sprintf("Q%d", i+1)
		}
	}
	return questions, nil
}
