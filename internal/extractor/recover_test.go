package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"extractd/internal/extractor"
)

func TestRecoverResult_DirectJSON(t *testing.T) {
	result, ok := extractor.RecoverResult(
		`{"doc_type":"invoice","invoice_number":"INV-1","invoice_date":"2024-12-15","total_amount":2180.0,"currency":"USD"}`)

	assert.True(t, ok)
	assert.Equal(t, "invoice", result.DocType)
	assert.Equal(t, "INV-1", *result.InvoiceNumber)
	assert.Equal(t, "2024-12-15", *result.InvoiceDate)
	assert.Equal(t, 2180.0, *result.TotalAmount)
	assert.Equal(t, "USD", *result.Currency)
}

func TestRecoverResult_NullFields(t *testing.T) {
	result, ok := extractor.RecoverResult(
		`{"doc_type":"unknown","invoice_number":null,"invoice_date":null,"total_amount":null,"currency":null}`)

	assert.True(t, ok)
	assert.Equal(t, "unknown", result.DocType)
	assert.Nil(t, result.InvoiceNumber)
	assert.Nil(t, result.TotalAmount)
}

func TestRecoverResult_FencedBlock(t *testing.T) {
	text := "Here is the extraction:\n```json\n{\"doc_type\":\"receipt\",\"total_amount\":45.5}\n```\nLet me know if you need anything else."

	result, ok := extractor.RecoverResult(text)

	assert.True(t, ok)
	assert.Equal(t, "receipt", result.DocType)
	assert.Equal(t, 45.5, *result.TotalAmount)
}

func TestRecoverResult_FencedBlockNoLanguageTag(t *testing.T) {
	text := "```\n{\"doc_type\":\"invoice\"}\n```"

	result, ok := extractor.RecoverResult(text)

	assert.True(t, ok)
	assert.Equal(t, "invoice", result.DocType)
}

func TestRecoverResult_EmbeddedObject(t *testing.T) {
	text := `Sure! The result is {"doc_type":"invoice","currency":"EUR"} based on the document.`

	result, ok := extractor.RecoverResult(text)

	assert.True(t, ok)
	assert.Equal(t, "invoice", result.DocType)
	assert.Equal(t, "EUR", *result.Currency)
}

func TestRecoverResult_NoJSON(t *testing.T) {
	result, ok := extractor.RecoverResult("I could not extract anything from this document.")

	assert.False(t, ok)
	assert.Nil(t, result)
}

func TestRecoverResult_MalformedJSON(t *testing.T) {
	result, ok := extractor.RecoverResult(`{"doc_type": "invoice", "total_amount": }`)

	assert.False(t, ok)
	assert.Nil(t, result)
}
