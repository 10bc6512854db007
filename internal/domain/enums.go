package domain

// RequestStatus represents the lifecycle of an extraction request.
// Transitions are one-way: PENDING moves to exactly one terminal state.
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusCompleted RequestStatus = "COMPLETED"
	StatusFailed    RequestStatus = "FAILED"
)

// Terminal reports whether the status is a terminal state.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Document type values produced by the extractors.
const (
	DocTypeInvoice = "invoice"
	DocTypeReceipt = "receipt"
	DocTypeUnknown = "unknown"
)

// Error codes recorded on FAILED requests.
const (
	ErrCodeExtractorTimeout = "EXTRACTOR_TIMEOUT"
	ErrCodeExtractorError   = "EXTRACTOR_ERROR"
)
