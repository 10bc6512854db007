package extractor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"extractd/internal/domain"
	"extractd/internal/extractor"
	"extractd/mocks"
)

func strptr(s string) *string { return &s }

func f64ptr(f float64) *float64 { return &f }

func TestMergeResults_PreferredWinsWhenPresent(t *testing.T) {
	preferred := &domain.ExtractionResult{
		DocType:       domain.DocTypeInvoice,
		InvoiceNumber: strptr("INV-SEM"),
		InvoiceDate:   strptr("2024-12-15"),
		TotalAmount:   f64ptr(2180),
		Currency:      strptr("USD"),
	}
	fallback := &domain.ExtractionResult{
		DocType:       domain.DocTypeReceipt,
		InvoiceNumber: strptr("INV-PAT"),
		InvoiceDate:   strptr("2024-01-01"),
		TotalAmount:   f64ptr(99),
		Currency:      strptr("EUR"),
	}

	merged := extractor.MergeResults(preferred, fallback)

	assert.Equal(t, domain.DocTypeInvoice, merged.DocType)
	assert.Equal(t, "INV-SEM", *merged.InvoiceNumber)
	assert.Equal(t, "2024-12-15", *merged.InvoiceDate)
	assert.Equal(t, 2180.0, *merged.TotalAmount)
	assert.Equal(t, "USD", *merged.Currency)
}

func TestMergeResults_FallbackFillsGaps(t *testing.T) {
	preferred := &domain.ExtractionResult{
		DocType:     "",
		InvoiceDate: strptr("2024-12-15"),
		Currency:    strptr(""),
	}
	fallback := &domain.ExtractionResult{
		DocType:       domain.DocTypeInvoice,
		InvoiceNumber: strptr("INV-PAT"),
		InvoiceDate:   strptr("2024-01-01"),
		TotalAmount:   f64ptr(500),
		Currency:      strptr("GBP"),
	}

	merged := extractor.MergeResults(preferred, fallback)

	assert.Equal(t, domain.DocTypeInvoice, merged.DocType)
	assert.Equal(t, "INV-PAT", *merged.InvoiceNumber) // preferred had nil
	assert.Equal(t, "2024-12-15", *merged.InvoiceDate)
	assert.Equal(t, 500.0, *merged.TotalAmount) // preferred had nil
	assert.Equal(t, "GBP", *merged.Currency)    // preferred had empty string
}

func TestMergeResults_UnknownDocTypeIsStillAValue(t *testing.T) {
	preferred := &domain.ExtractionResult{DocType: domain.DocTypeUnknown}
	fallback := &domain.ExtractionResult{DocType: domain.DocTypeReceipt}

	merged := extractor.MergeResults(preferred, fallback)

	assert.Equal(t, domain.DocTypeUnknown, merged.DocType)
}

func TestMergeResults_NilInputs(t *testing.T) {
	only := &domain.ExtractionResult{DocType: domain.DocTypeInvoice}

	assert.Equal(t, only, extractor.MergeResults(nil, only))
	assert.Equal(t, only, extractor.MergeResults(only, nil))
	assert.Nil(t, extractor.MergeResults(nil, nil))
}

func TestMergeExtractor_BothSucceed(t *testing.T) {
	semantic := new(mocks.MockTextExtractor)
	baseline := new(mocks.MockTextExtractor)
	me := extractor.NewMergeExtractor(semantic, baseline)

	text := "Invoice Number: INV-1"
	semantic.On("Extract", mock.Anything, text).Return(&domain.ExtractionResult{
		DocType:       domain.DocTypeInvoice,
		InvoiceNumber: strptr("INV-SEM"),
	}, nil)
	baseline.On("Extract", mock.Anything, text).Return(&domain.ExtractionResult{
		DocType:     domain.DocTypeReceipt,
		InvoiceDate: strptr("2024-12-15"),
		TotalAmount: f64ptr(10),
	}, nil)

	result, err := me.Extract(context.Background(), text)

	assert.NoError(t, err)
	assert.Equal(t, domain.DocTypeInvoice, result.DocType)
	assert.Equal(t, "INV-SEM", *result.InvoiceNumber)
	assert.Equal(t, "2024-12-15", *result.InvoiceDate) // filled from baseline
	assert.Equal(t, 10.0, *result.TotalAmount)
	semantic.AssertExpectations(t)
	baseline.AssertExpectations(t)
}

func TestMergeExtractor_SemanticFails_BaselineOnly(t *testing.T) {
	semantic := new(mocks.MockTextExtractor)
	baseline := new(mocks.MockTextExtractor)
	me := extractor.NewMergeExtractor(semantic, baseline)

	text := "Receipt"
	want := &domain.ExtractionResult{DocType: domain.DocTypeReceipt}
	semantic.On("Extract", mock.Anything, text).Return(nil, errors.New("api unreachable"))
	baseline.On("Extract", mock.Anything, text).Return(want, nil)

	result, err := me.Extract(context.Background(), text)

	assert.NoError(t, err)
	assert.Equal(t, want, result)
}

func TestMergeExtractor_BaselineFails_SemanticOnly(t *testing.T) {
	semantic := new(mocks.MockTextExtractor)
	baseline := new(mocks.MockTextExtractor)
	me := extractor.NewMergeExtractor(semantic, baseline)

	text := "Invoice"
	want := &domain.ExtractionResult{DocType: domain.DocTypeInvoice}
	semantic.On("Extract", mock.Anything, text).Return(want, nil)
	baseline.On("Extract", mock.Anything, text).Return(nil, errors.New("pattern error"))

	result, err := me.Extract(context.Background(), text)

	assert.NoError(t, err)
	assert.Equal(t, want, result)
}

func TestMergeExtractor_BothFail(t *testing.T) {
	semantic := new(mocks.MockTextExtractor)
	baseline := new(mocks.MockTextExtractor)
	me := extractor.NewMergeExtractor(semantic, baseline)

	text := "Invoice"
	semantic.On("Extract", mock.Anything, text).Return(nil, errors.New("semantic error"))
	baseline.On("Extract", mock.Anything, text).Return(nil, errors.New("baseline error"))

	result, err := me.Extract(context.Background(), text)

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "both extractors failed")
}

func TestMergeExtractor_FailureTriggerShortCircuits(t *testing.T) {
	semantic := new(mocks.MockTextExtractor)
	baseline := new(mocks.MockTextExtractor)
	me := extractor.NewMergeExtractor(semantic, baseline)

	result, err := me.Extract(context.Background(), "doc "+extractor.FailureTrigger)

	assert.Nil(t, result)
	var exErr *extractor.Error
	assert.ErrorAs(t, err, &exErr)
	assert.Equal(t, domain.ErrCodeExtractorTimeout, exErr.Code)
	semantic.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	baseline.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}
