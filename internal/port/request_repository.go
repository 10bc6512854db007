package port

import (
	"context"

	"extractd/internal/domain"
)

// RequestRepository is the durable store for extraction requests.
//
// Create must enforce uniqueness of the idempotency key and return
// domain.ErrDuplicateIdempotencyKey on conflict so callers can refetch the
// winning record. MarkCompleted and MarkFailed are the only mutation paths and
// must refuse to overwrite a terminal state.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.ExtractionRequest) error
	GetByID(ctx context.Context, id string) (*domain.ExtractionRequest, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.ExtractionRequest, error)
	ListPendingIDs(ctx context.Context) ([]string, error)
	List(ctx context.Context, offset, limit int) ([]domain.ExtractionRequest, int, error)
	MarkCompleted(ctx context.Context, id string, result *domain.ExtractionResult) error
	MarkFailed(ctx context.Context, id string, code, message string) error
}
