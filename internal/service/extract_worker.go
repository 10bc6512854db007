package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"extractd/internal/domain"
	"extractd/internal/extractor"
	"extractd/internal/port"
)

// ExtractWorkerConfig holds the worker's retry and timeout policy.
// MaxRetries is the total attempt budget per request; an always-failing
// extractor runs exactly MaxRetries attempts before the terminal FAILED write.
type ExtractWorkerConfig struct {
	MaxRetries     int
	AttemptTimeout time.Duration
	Concurrency    int
}

// ExtractWorker drains the task queue and drives each request through the
// retry/timeout state machine. Attempt counters live in the per-item loop and
// are not persisted; a process restart loses retry history for in-flight items
// (documented trade-off). A given request id is processed entirely within one
// consumer, so its attempts are strictly sequential.
type ExtractWorker struct {
	repo      port.RequestRepository
	queue     port.TaskQueue
	extractor port.TextExtractor
	cfg       ExtractWorkerConfig
	wg        sync.WaitGroup
}

// NewExtractWorker creates an ExtractWorker.
func NewExtractWorker(repo port.RequestRepository, queue port.TaskQueue, ext port.TextExtractor, cfg ExtractWorkerConfig) *ExtractWorker {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &ExtractWorker{repo: repo, queue: queue, extractor: ext, cfg: cfg}
}

// errAttemptTimeout marks an attempt that exceeded its time budget.
var errAttemptTimeout = errors.New("extraction attempt timed out")

// Start re-enqueues PENDING rows left over from a previous run, then consumes
// the queue until ctx is canceled. It blocks until all consumers have finished.
func (w *ExtractWorker) Start(ctx context.Context) {
	w.requeuePending(ctx)

	log.Printf("extractWorker: started (concurrency=%d, maxRetries=%d, attemptTimeout=%s)",
		w.cfg.Concurrency, w.cfg.MaxRetries, w.cfg.AttemptTimeout)

	for i := 0; i < w.cfg.Concurrency; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for {
				id, ok := w.queue.Dequeue(ctx)
				if !ok {
					return
				}
				w.process(ctx, id)
			}
		}()
	}

	w.wg.Wait()
	log.Printf("extractWorker: shutdown complete")
}

// requeuePending restores queued work after a restart. Attempt budgets start
// fresh; the store's status guard makes a duplicate enqueue harmless.
func (w *ExtractWorker) requeuePending(ctx context.Context) {
	ids, err := w.repo.ListPendingIDs(ctx)
	if err != nil {
		log.Printf("extractWorker: listing pending requests: %v", err)
		return
	}
	for _, id := range ids {
		if err := w.queue.Enqueue(ctx, id); err != nil {
			log.Printf("extractWorker: requeueing %s: %v", id, err)
			return
		}
	}
	if len(ids) > 0 {
		log.Printf("extractWorker: requeued %d pending request(s)", len(ids))
	}
}

func (w *ExtractWorker) process(ctx context.Context, requestID string) {
	req, err := w.repo.GetByID(ctx, requestID)
	if err != nil {
		log.Printf("extractWorker: fetching %s: %v", requestID, err)
		return
	}
	if req.Status != domain.StatusPending {
		log.Printf("extractWorker: skipping %s with non-pending status %s", requestID, req.Status)
		return
	}

	for attempt := 1; attempt <= w.cfg.MaxRetries; attempt++ {
		result, err := w.runAttempt(ctx, req.DocumentText)
		if err == nil {
			w.commitCompleted(ctx, requestID, result)
			return
		}
		if ctx.Err() != nil {
			// Shutting down mid-item: leave the record PENDING for the next
			// run's startup sweep.
			log.Printf("extractWorker: abandoning %s during shutdown (attempt %d)", requestID, attempt)
			return
		}
		if attempt < w.cfg.MaxRetries {
			log.Printf("extractWorker: attempt %d/%d failed for %s (%v), retrying",
				attempt, w.cfg.MaxRetries, requestID, err)
			if !w.waitRetryAfter(ctx, requestID, err) {
				return
			}
			continue
		}
		code, msg := classifyFailure(err, w.cfg.AttemptTimeout)
		log.Printf("extractWorker: request %s failed terminally after %d attempts: %s", requestID, attempt, code)
		w.commitFailed(ctx, requestID, code, msg)
		return
	}
}

// waitRetryAfter honors a provider's Retry-After window before the next
// attempt. Returns false when ctx was canceled during the wait; the record
// stays PENDING for the next run's startup sweep.
func (w *ExtractWorker) waitRetryAfter(ctx context.Context, requestID string, err error) bool {
	var rlErr *extractor.RateLimitError
	if !errors.As(err, &rlErr) {
		return true
	}
	log.Printf("extractWorker: %s rate limited, waiting %s before next attempt for %s",
		rlErr.Provider, rlErr.RetryAfter, requestID)
	select {
	case <-ctx.Done():
		return false
	case <-time.After(rlErr.RetryAfter):
		return true
	}
}

// runAttempt invokes the extractor bounded by the per-attempt timeout. The
// result channel is buffered and abandoned on timeout, so a late completion
// from a timed-out attempt is discarded and can never commit state.
func (w *ExtractWorker) runAttempt(ctx context.Context, documentText string) (*domain.ExtractionResult, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, w.cfg.AttemptTimeout)
	defer cancel()

	type attemptResult struct {
		res *domain.ExtractionResult
		err error
	}
	done := make(chan attemptResult, 1)
	go func() {
		res, err := w.extractor.Extract(attemptCtx, documentText)
		done <- attemptResult{res, err}
	}()

	select {
	case r := <-done:
		return r.res, r.err
	case <-attemptCtx.Done():
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return nil, errAttemptTimeout
		}
		return nil, attemptCtx.Err()
	}
}

func (w *ExtractWorker) commitCompleted(ctx context.Context, requestID string, result *domain.ExtractionResult) {
	err := w.repo.MarkCompleted(ctx, requestID, result)
	switch {
	case err == nil:
		log.Printf("extractWorker: request %s completed", requestID)
	case errors.Is(err, domain.ErrRequestNotPending):
		log.Printf("extractWorker: discarding completion for %s, already terminal", requestID)
	default:
		log.Printf("extractWorker: saving result for %s: %v", requestID, err)
	}
}

func (w *ExtractWorker) commitFailed(ctx context.Context, requestID, code, message string) {
	err := w.repo.MarkFailed(ctx, requestID, code, message)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRequestNotPending):
		log.Printf("extractWorker: discarding failure for %s, already terminal", requestID)
	default:
		log.Printf("extractWorker: saving failure for %s: %v", requestID, err)
	}
}

// classifyFailure maps an attempt error to the recorded terminal code and
// message: timeouts, extractor-reported typed failures, then everything else.
func classifyFailure(err error, attemptTimeout time.Duration) (code, message string) {
	if errors.Is(err, errAttemptTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrCodeExtractorTimeout,
			fmt.Sprintf("extraction timed out after %s", attemptTimeout)
	}
	var exErr *extractor.Error
	if errors.As(err, &exErr) {
		return exErr.Code, exErr.Message
	}
	return domain.ErrCodeExtractorError, err.Error()
}
