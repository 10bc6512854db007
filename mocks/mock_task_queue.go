package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTaskQueue is a mock implementation of port.TaskQueue.
type MockTaskQueue struct {
	mock.Mock
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

func (m *MockTaskQueue) Dequeue(ctx context.Context) (string, bool) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1)
}

func (m *MockTaskQueue) Len() int {
	args := m.Called()
	return args.Int(0)
}
