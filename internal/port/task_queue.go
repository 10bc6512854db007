package port

import "context"

// TaskQueue is a FIFO channel of request identifiers awaiting processing.
// The in-memory implementation can be swapped for a durable broker without
// touching the worker's state machine.
type TaskQueue interface {
	// Enqueue adds an identifier, blocking while the queue is at capacity.
	// It returns ctx.Err() if the context is canceled while waiting.
	Enqueue(ctx context.Context, requestID string) error

	// Dequeue removes the oldest identifier, blocking until one is available.
	// ok is false when ctx was canceled before an identifier arrived.
	Dequeue(ctx context.Context) (requestID string, ok bool)

	// Len reports the number of identifiers currently queued.
	Len() int
}
