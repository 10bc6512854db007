package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"extractd/internal/domain"
)

// MockRequestRepo is a mock implementation of port.RequestRepository.
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.ExtractionRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepo) GetByID(ctx context.Context, id string) (*domain.ExtractionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRequest), args.Error(1)
}

func (m *MockRequestRepo) GetByIdempotencyKey(ctx context.Context, key string) (*domain.ExtractionRequest, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRequest), args.Error(1)
}

func (m *MockRequestRepo) ListPendingIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRequestRepo) List(ctx context.Context, offset, limit int) ([]domain.ExtractionRequest, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ExtractionRequest), args.Int(1), args.Error(2)
}

func (m *MockRequestRepo) MarkCompleted(ctx context.Context, id string, result *domain.ExtractionResult) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

func (m *MockRequestRepo) MarkFailed(ctx context.Context, id string, code, message string) error {
	args := m.Called(ctx, id, code, message)
	return args.Error(0)
}
