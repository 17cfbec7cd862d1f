package services

// Fallback prompt templates used when no PromptStore is set or it fails.
// Each takes the question text and the retrieved context, in that order.
const (
	defaultSyllabusPrompt = `You are an expert academic assistant evaluating if an exam question is covered by a given syllabus.

Question: "%s"

%s

Based on the syllabus sections provided:
1. Is the question IN SYLLABUS or OUT OF SYLLABUS?
2. Provide brief reasoning.

Your response MUST start with "SYLLABUS_VERDICT: IN_SYLLABUS" or "SYLLABUS_VERDICT: OUT_OF_SYLLABUS".
Then provide "REASONING: " with your explanation.`

	defaultTextbookPrompt = `Check if this question's topic is covered in the textbook excerpts.

Question: "%s"

%s

Answer with "TEXTBOOK_COVERAGE: YES_IN_TEXTBOOK" or "TEXTBOOK_COVERAGE: NO_IN_PROVIDED_TEXTBOOK_EXCERPTS".
Then provide "REASONING: " with your explanation.`
)
