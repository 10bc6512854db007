package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"extractd/internal/domain"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, documentText string) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, documentText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}
