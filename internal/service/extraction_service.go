package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"extractd/internal/config"
	"extractd/internal/domain"
	"extractd/internal/port"
)

// ExtractionService is the submission gate and status read path.
type ExtractionService interface {
	// Submit returns the request for the given idempotency key, creating and
	// enqueueing it exactly once per distinct key.
	Submit(ctx context.Context, idempotencyKey, documentText string) (*domain.ExtractionRequest, error)

	// Get returns the request by id, short-polling a bounded number of times
	// while it is still PENDING.
	Get(ctx context.Context, requestID string) (*domain.ExtractionRequest, error)
}

type extractionService struct {
	repo   port.RequestRepository
	queue  port.TaskQueue
	status config.StatusConfig
}

// NewExtractionService creates an ExtractionService.
func NewExtractionService(repo port.RequestRepository, queue port.TaskQueue, status config.StatusConfig) ExtractionService {
	return &extractionService{repo: repo, queue: queue, status: status}
}

func (s *extractionService) Submit(ctx context.Context, idempotencyKey, documentText string) (*domain.ExtractionRequest, error) {
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey == "" || len(idempotencyKey) > 255 {
		return nil, fmt.Errorf("%w: idempotency_key must be 1-255 characters", domain.ErrInvalidInput)
	}
	if documentText == "" {
		return nil, fmt.Errorf("%w: document_text must not be empty", domain.ErrInvalidInput)
	}

	existing, err := s.repo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err == nil {
		log.Printf("extractionService.Submit: idempotent hit, returning request %s (status=%s) for key %q",
			existing.ID, existing.Status, idempotencyKey)
		return existing, nil
	}
	if !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, err
	}

	req := &domain.ExtractionRequest{
		ID:             newRequestID(),
		IdempotencyKey: idempotencyKey,
		Status:         domain.StatusPending,
		DocumentText:   documentText,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			// Lost the creation race: return the winner's record, no enqueue.
			winner, refetchErr := s.repo.GetByIdempotencyKey(ctx, idempotencyKey)
			if refetchErr != nil {
				return nil, fmt.Errorf("refetching after duplicate key: %w", refetchErr)
			}
			log.Printf("extractionService.Submit: creation race on key %q, returning winner %s", idempotencyKey, winner.ID)
			return winner, nil
		}
		return nil, err
	}

	if err := s.queue.Enqueue(ctx, req.ID); err != nil {
		// The record stays PENDING; the worker's startup sweep will pick it up.
		return nil, fmt.Errorf("enqueueing request %s: %w", req.ID, err)
	}
	log.Printf("extractionService.Submit: created and enqueued request %s for key %q", req.ID, idempotencyKey)
	return req, nil
}

func (s *extractionService) Get(ctx context.Context, requestID string) (*domain.ExtractionRequest, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return req, nil
	}

	// Bounded short-poll to absorb the gap between a fast worker and an
	// immediately-following read. Latency optimization only: a PENDING return
	// after the budget is a correct answer.
	for i := 0; i < s.status.PollAttempts; i++ {
		select {
		case <-ctx.Done():
			return req, nil
		case <-time.After(s.status.PollDelay()):
		}
		req, err = s.repo.GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if req.Status.Terminal() {
			return req, nil
		}
	}
	return req, nil
}

func newRequestID() string {
	return "req_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
