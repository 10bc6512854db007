package domain

import "time"

// ExtractionRequest is the unit of work: a submitted document and its outcome.
// Created once per idempotency key, mutated only by the worker.
type ExtractionRequest struct {
	ID             string        `db:"id" json:"id"`
	IdempotencyKey string        `db:"idempotency_key" json:"idempotency_key"`
	Status         RequestStatus `db:"status" json:"status"`
	DocumentText   string        `db:"document_text" json:"-"`

	// Result fields, set only when Status is COMPLETED.
	DocType       *string  `db:"doc_type" json:"doc_type,omitempty"`
	InvoiceNumber *string  `db:"invoice_number" json:"invoice_number,omitempty"`
	InvoiceDate   *string  `db:"invoice_date" json:"invoice_date,omitempty"` // YYYY-MM-DD
	TotalAmount   *float64 `db:"total_amount" json:"total_amount,omitempty"`
	Currency      *string  `db:"currency" json:"currency,omitempty"`

	// Error fields, set only when Status is FAILED.
	ErrorCode    *string `db:"error_code" json:"error_code,omitempty"`
	ErrorMessage *string `db:"error_message" json:"error_message,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExtractionResult holds the structured fields produced by an extractor.
// A nil pointer means the extractor could not determine that field.
type ExtractionResult struct {
	DocType       string   `json:"doc_type"`
	InvoiceNumber *string  `json:"invoice_number"`
	InvoiceDate   *string  `json:"invoice_date"`
	TotalAmount   *float64 `json:"total_amount"`
	Currency      *string  `json:"currency"`
}

// ExtractionError is the user-visible error recorded on a FAILED request.
type ExtractionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result builds an ExtractionResult view from a COMPLETED request.
func (r *ExtractionRequest) Result() *ExtractionResult {
	if r.Status != StatusCompleted {
		return nil
	}
	docType := DocTypeUnknown
	if r.DocType != nil {
		docType = *r.DocType
	}
	return &ExtractionResult{
		DocType:       docType,
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   r.InvoiceDate,
		TotalAmount:   r.TotalAmount,
		Currency:      r.Currency,
	}
}

// Error builds an ExtractionError view from a FAILED request.
func (r *ExtractionRequest) Error() *ExtractionError {
	if r.Status != StatusFailed {
		return nil
	}
	e := &ExtractionError{Code: "UNKNOWN_ERROR"}
	if r.ErrorCode != nil {
		e.Code = *r.ErrorCode
	}
	if r.ErrorMessage != nil {
		e.Message = *r.ErrorMessage
	}
	return e
}
