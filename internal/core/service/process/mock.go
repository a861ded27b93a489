package process

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockScheduler struct {
	mock.Mock
}

func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

func (m *MockScheduler) Schedule(ctx context.Context, sessionID string, stagingDir string) (<-chan struct{}, error) {
	args := m.Called(ctx, sessionID, stagingDir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan struct{}), args.Error(1)
}
