package archive

import (
	"context"

	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/stretchr/testify/mock"
)

// MockRepository implements Repository for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) IndexSummary(ctx context.Context, summary *entities.SessionSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockRepository) ListSummaries(ctx context.Context, limit int) ([]*entities.SessionSummary, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]*entities.SessionSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
