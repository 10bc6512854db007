package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"extractd/internal/domain"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Submit(ctx context.Context, idempotencyKey, documentText string) (*domain.ExtractionRequest, error) {
	args := m.Called(ctx, idempotencyKey, documentText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRequest), args.Error(1)
}

func (m *MockExtractionService) Get(ctx context.Context, requestID string) (*domain.ExtractionRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRequest), args.Error(1)
}
