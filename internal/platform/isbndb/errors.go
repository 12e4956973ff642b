package isbndb

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRateLimited is matched by every *RateLimitError.
	ErrRateLimited = errors.New("isbndb: rate limited")
	ErrInvalidISBN = errors.New("isbndb: invalid isbn")
)

// RateLimitError is returned when the API answers 429. It is never retried.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
	}
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// NewRateLimitError creates a RateLimitError with the given message.
func NewRateLimitError(message string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{Message: message, RetryAfter: retryAfter}
}

// IsRateLimitError reports whether err or anything it wraps is a RateLimitError.
func IsRateLimitError(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
