package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Validation cannot run without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Ingestion cannot build a searchable index without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrSyllabusNotProcessed indicates validation was requested before a
	// searchable syllabus index exists.
	ErrSyllabusNotProcessed = errors.New("syllabus not processed")

	// ErrNoCorpus indicates nothing has been ingested into the session yet.
	ErrNoCorpus = errors.New("no corpus loaded")

	// ErrExtraction indicates a document could not be read as text.
	ErrExtraction = errors.New("text extraction failed")

	// LLM call errors.

	// ErrAPIKeyExpired indicates the LLM provider rejected the API key.
	ErrAPIKeyExpired = errors.New("API key expired or invalid")

	// ErrQuotaExceeded indicates the provider's quota or rate limit was hit.
	ErrQuotaExceeded = errors.New("API quota exceeded")

	// ErrBadRequest indicates the provider rejected the request itself.
	ErrBadRequest = errors.New("bad request")

	// ErrLLMCall indicates any other failure talking to the provider.
	ErrLLMCall = errors.New("LLM call failed")

	// ErrEmptyResponse indicates the provider answered with no text.
	ErrEmptyResponse = errors.New("LLM returned an empty response")
)

// LLMErrorKind is the wire name of a classified LLM failure.
type LLMErrorKind string

// LLM error kinds.
const (
	LLMErrorNone          LLMErrorKind = ""
	LLMErrorAPIKeyExpired LLMErrorKind = "API_KEY_EXPIRED"
	LLMErrorQuotaExceeded LLMErrorKind = "QUOTA_EXCEEDED"
	LLMErrorBadRequest    LLMErrorKind = "BAD_REQUEST"
	LLMErrorGeneral       LLMErrorKind = "GENERAL"
	LLMErrorEmptyResponse LLMErrorKind = "EMPTY_RESPONSE"
)

// String returns the string representation.
func (k LLMErrorKind) String() string {
	return string(k)
}

// Aborts reports whether an error of this kind stops a whole validation
// run rather than a single check.
func (k LLMErrorKind) Aborts() bool {
	return k == LLMErrorAPIKeyExpired || k == LLMErrorQuotaExceeded || k == LLMErrorGeneral
}

// LLMErrorKindOf returns the kind of a classified LLM error.
// Unclassified non-nil errors are reported as LLMErrorGeneral.
func LLMErrorKindOf(err error) LLMErrorKind {
	switch {
	case err == nil:
		return LLMErrorNone
	case errors.Is(err, ErrAPIKeyExpired):
		return LLMErrorAPIKeyExpired
	case errors.Is(err, ErrQuotaExceeded):
		return LLMErrorQuotaExceeded
	case errors.Is(err, ErrBadRequest):
		return LLMErrorBadRequest
	case errors.Is(err, ErrEmptyResponse):
		return LLMErrorEmptyResponse
	default:
		return LLMErrorGeneral
	}
}

// ClassifyLLMError wraps err with the sentinel matching its message.
// Errors that already carry an LLM sentinel are returned unchanged.
func ClassifyLLMError(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrAPIKeyExpired, ErrQuotaExceeded, ErrBadRequest, ErrEmptyResponse, ErrLLMCall} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key expired"), strings.Contains(msg, "API_KEY_INVALID"):
		return fmt.Errorf("%w: %w", ErrAPIKeyExpired, err)
	case strings.Contains(strings.ToLower(msg), "quota"), strings.Contains(msg, "429"):
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	case strings.Contains(msg, "400"):
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	default:
		return fmt.Errorf("%w: %w", ErrLLMCall, err)
	}
}
