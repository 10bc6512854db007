// Package extractor holds the extraction capability shared by the
// deterministic pattern backend and the semantic providers: typed failures,
// the provider registry, the prompt, JSON recovery, and the field-level merge.
package extractor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"extractd/internal/domain"
)

// Error is a recognized extraction failure carrying its own error code. The
// worker records the code and message verbatim on the terminal FAILED write.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// RateLimitError indicates an extraction provider returned HTTP 429. The
// worker waits out RetryAfter before spending the next attempt.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// FailureTrigger is a sentinel substring that deterministically fails
// extraction. It is a test hook, not user-facing behavior; the literal and the
// resulting code/message are relied on by integration tests and must not change.
const FailureTrigger = "<<TRIGGER_EXTRACTOR_FAILURE>>"

// CheckTrigger returns the designated failure when text contains the sentinel.
func CheckTrigger(text string) error {
	if !strings.Contains(text, FailureTrigger) {
		return nil
	}
	return &Error{
		Code:    domain.ErrCodeExtractorTimeout,
		Message: "Extraction process timed out after 30 seconds",
	}
}
