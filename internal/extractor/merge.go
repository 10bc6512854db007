package extractor

import (
	"context"
	"fmt"
	"log"
	"sync"

	"extractd/internal/domain"
	"extractd/internal/port"
)

// MergeExtractor runs a semantic extractor and the pattern baseline in
// parallel and merges their results field by field, preferring the semantic
// value when present. One side failing falls back to the other alone; one
// extractor's partial success never discards the other's coverage.
type MergeExtractor struct {
	semantic port.TextExtractor
	baseline port.TextExtractor
}

// NewMergeExtractor creates a MergeExtractor from a semantic extractor and the
// deterministic baseline.
func NewMergeExtractor(semantic, baseline port.TextExtractor) *MergeExtractor {
	return &MergeExtractor{semantic: semantic, baseline: baseline}
}

var _ port.TextExtractor = (*MergeExtractor)(nil)

func (m *MergeExtractor) Extract(ctx context.Context, documentText string) (*domain.ExtractionResult, error) {
	// The deliberate failure path must fire regardless of which side would
	// otherwise succeed.
	if err := CheckTrigger(documentText); err != nil {
		return nil, err
	}

	type result struct {
		res *domain.ExtractionResult
		err error
	}

	var wg sync.WaitGroup
	semCh := make(chan result, 1)
	baseCh := make(chan result, 1)

	wg.Add(2)
	go func() {
		defer wg.Done()
		res, err := m.semantic.Extract(ctx, documentText)
		semCh <- result{res, err}
	}()
	go func() {
		defer wg.Done()
		res, err := m.baseline.Extract(ctx, documentText)
		baseCh <- result{res, err}
	}()

	wg.Wait()
	sem := <-semCh
	base := <-baseCh

	if sem.err != nil && base.err != nil {
		return nil, fmt.Errorf("both extractors failed: semantic: %v; baseline: %w", sem.err, base.err)
	}
	if sem.err != nil {
		log.Printf("extractor.MergeExtractor: semantic extractor failed (%v), using baseline only", sem.err)
		return base.res, nil
	}
	if base.err != nil {
		log.Printf("extractor.MergeExtractor: baseline extractor failed (%v), using semantic only", base.err)
		return sem.res, nil
	}

	return MergeResults(sem.res, base.res), nil
}

// MergeResults combines two extraction results per field: the preferred value
// wins when present and non-empty, otherwise the fallback value is used. Pure
// function, independent of which implementations produced the inputs.
func MergeResults(preferred, fallback *domain.ExtractionResult) *domain.ExtractionResult {
	if preferred == nil {
		return fallback
	}
	if fallback == nil {
		return preferred
	}
	merged := &domain.ExtractionResult{
		DocType:       preferred.DocType,
		InvoiceNumber: mergeStringField(preferred.InvoiceNumber, fallback.InvoiceNumber),
		InvoiceDate:   mergeStringField(preferred.InvoiceDate, fallback.InvoiceDate),
		TotalAmount:   preferred.TotalAmount,
		Currency:      mergeStringField(preferred.Currency, fallback.Currency),
	}
	if merged.DocType == "" {
		merged.DocType = fallback.DocType
	}
	if merged.TotalAmount == nil {
		merged.TotalAmount = fallback.TotalAmount
	}
	return merged
}

func mergeStringField(preferred, fallback *string) *string {
	if preferred != nil && *preferred != "" {
		return preferred
	}
	return fallback
}
