package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"extractd/internal/domain"
	"extractd/internal/export"
)

func sampleRequests() []domain.ExtractionRequest {
	docType := domain.DocTypeInvoice
	invoiceNumber := "INV-1"
	invoiceDate := "2024-12-15"
	amount := 2180.0
	currency := "USD"
	errCode := domain.ErrCodeExtractorTimeout
	errMsg := "Extraction process timed out after 30 seconds"
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	return []domain.ExtractionRequest{
		{
			ID:             "req_abc123def456",
			IdempotencyKey: "order-42",
			Status:         domain.StatusCompleted,
			DocType:        &docType,
			InvoiceNumber:  &invoiceNumber,
			InvoiceDate:    &invoiceDate,
			TotalAmount:    &amount,
			Currency:       &currency,
			CreatedAt:      created,
			UpdatedAt:      created,
		},
		{
			ID:             "req_fff000fff000",
			IdempotencyKey: "order-43",
			Status:         domain.StatusFailed,
			ErrorCode:      &errCode,
			ErrorMessage:   &errMsg,
			CreatedAt:      created,
			UpdatedAt:      created,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteCSV(&buf, sampleRequests())
	assert.NoError(t, err)

	raw := buf.Bytes()
	assert.True(t, bytes.HasPrefix(raw, export.BOM))

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, export.BOM))).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "Request ID", header[0])
	assert.Equal(t, "Idempotency Key", header[1])
	assert.Equal(t, "Status", header[2])

	completed := records[1]
	assert.Equal(t, "req_abc123def456", completed[0])
	assert.Equal(t, "COMPLETED", completed[2])
	assert.Equal(t, "invoice", completed[3])
	assert.Equal(t, "INV-1", completed[4])
	assert.Equal(t, "2024-12-15", completed[5])
	assert.Equal(t, "2180.00", completed[6])
	assert.Equal(t, "USD", completed[7])
	assert.Empty(t, completed[8])

	failed := records[2]
	assert.Equal(t, "FAILED", failed[2])
	assert.Empty(t, failed[3])
	assert.Empty(t, failed[6])
	assert.Equal(t, domain.ErrCodeExtractorTimeout, failed[8])
	assert.Equal(t, "Extraction process timed out after 30 seconds", failed[9])
	assert.Equal(t, "2025-06-01T12:00:00Z", failed[10])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteCSV(&buf, nil)
	assert.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(buf.Bytes(), export.BOM))).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 1) // header only
}
