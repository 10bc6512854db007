package port

import (
	"context"

	"extractd/internal/domain"
)

// TextExtractor maps document text to structured fields.
//
// Implementations must be deterministic with respect to their inputs and
// report recognized failures as *extractor.Error so the worker can record
// the provider's own code and message.
type TextExtractor interface {
	Extract(ctx context.Context, documentText string) (*domain.ExtractionResult, error)
}
