package readwise

import (
	"errors"
	"fmt"
)

// ErrInvalidToken indicates the provided API token was rejected (401/403)
var ErrInvalidToken = errors.New("invalid or expired Readwise token")

// RateLimitError represents a 429 response carrying a retry-after duration
type RateLimitError struct {
	RetryAfter int // seconds
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Readwise rate limit exceeded, retry after %d seconds", e.RetryAfter)
}

// APIError represents any other non-success response from the Readwise API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("Readwise API error: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("Readwise API error: HTTP %d", e.StatusCode)
}
