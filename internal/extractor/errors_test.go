package extractor_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"extractd/internal/domain"
	"extractd/internal/extractor"
)

func TestCheckTrigger_CleanText(t *testing.T) {
	assert.NoError(t, extractor.CheckTrigger("Invoice Number: INV-1"))
}

func TestCheckTrigger_SentinelAnywhere(t *testing.T) {
	err := extractor.CheckTrigger("some text " + extractor.FailureTrigger + " more text")

	var exErr *extractor.Error
	assert.ErrorAs(t, err, &exErr)
	assert.Equal(t, domain.ErrCodeExtractorTimeout, exErr.Code)
	assert.Equal(t, "Extraction process timed out after 30 seconds", exErr.Message)
}

func TestError_ErrorString(t *testing.T) {
	err := &extractor.Error{Code: "EXTRACTOR_ERROR", Message: "something broke"}
	assert.Equal(t, "EXTRACTOR_ERROR: something broke", err.Error())
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader("soon"))
	assert.Equal(t, 30, extractor.ParseRetryAfterHeader("30"))
}

func TestNewRateLimitError_DefaultsAndUnwrap(t *testing.T) {
	base := errors.New("openai API error (status 429)")

	err := extractor.NewRateLimitError("openai", base, 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.Equal(t, "openai", err.Provider)
	assert.ErrorIs(t, err, base)

	err = extractor.NewRateLimitError("openai", base, 7)
	assert.Equal(t, 7*time.Second, err.RetryAfter)
	assert.Contains(t, err.Error(), "rate limited")
}
