// Package queue provides the in-memory task queue backing the extraction
// worker. It stands in for a durable broker behind port.TaskQueue.
package queue

import (
	"context"

	"extractd/internal/port"
)

// Memory is a bounded FIFO of request identifiers backed by a buffered
// channel. Identifiers are delivered in enqueue order. When the buffer is
// full, Enqueue blocks, exposing backpressure to the submission path.
type Memory struct {
	ch chan string
}

// NewMemory creates a Memory queue with the given capacity.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Memory{ch: make(chan string, capacity)}
}

// Enqueue adds requestID, blocking until space is available or ctx is canceled.
func (q *Memory) Enqueue(ctx context.Context, requestID string) error {
	select {
	case q.ch <- requestID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue removes the oldest identifier, blocking until one arrives or ctx is
// canceled.
func (q *Memory) Dequeue(ctx context.Context) (string, bool) {
	select {
	case id := <-q.ch:
		return id, true
	case <-ctx.Done():
		return "", false
	}
}

// Len reports the number of identifiers currently buffered.
func (q *Memory) Len() int {
	return len(q.ch)
}

var _ port.TaskQueue = (*Memory)(nil)
