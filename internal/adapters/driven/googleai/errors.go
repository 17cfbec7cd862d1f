package googleai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
)

// retryInfoType marks the error detail carrying a retry delay.
const retryInfoType = "type.googleapis.com/google.rpc.RetryInfo"

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Code == http.StatusTooManyRequests
}

// RetryAfter returns the retry delay of a rate limit error in seconds,
// read from its RetryInfo detail, or zero when there is none.
func RetryAfter(err error) int {
	apiErr, ok := asAPIError(err)
	if !ok {
		return 0
	}
	for _, detail := range apiErr.Details {
		if detail["@type"] != retryInfoType {
			continue
		}
		delay, ok := detail["retryDelay"].(string)
		if !ok {
			continue
		}
		d, parseErr := time.ParseDuration(delay)
		if parseErr != nil || d < 0 {
			return 0
		}
		return int(d.Seconds())
	}
	return 0
}

// WrapError maps a Gemini API error onto the domain LLM sentinels.
// Errors that are not API errors are classified by message.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return domain.ClassifyLLMError(err)
	}

	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrAPIKeyExpired, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrQuotaExceeded, err)
	case http.StatusBadRequest:
		// An invalid or expired key is reported as a 400.
		if strings.Contains(apiErr.Message, "API key") || strings.Contains(apiErr.Message, "API_KEY") {
			return fmt.Errorf("%w: %w", domain.ErrAPIKeyExpired, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrBadRequest, err)
	default:
		return domain.ClassifyLLMError(err)
	}
}

// asAPIError finds a genai.APIError in the chain, held by value or pointer.
func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}
