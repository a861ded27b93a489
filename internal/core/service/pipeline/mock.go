package pipeline

import (
	"context"
	"filedrop/internal/core/domain"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockPipelineService struct {
	mock.Mock
}

func NewMockPipelineService() *MockPipelineService {
	return &MockPipelineService{}
}

func (m *MockPipelineService) BeginUpload(ctx context.Context, ownerIdentity string) (string, error) {
	args := m.Called(ctx, ownerIdentity)
	return args.String(0), args.Error(1)
}

func (m *MockPipelineService) ReceiveChunk(ctx context.Context, sessionID string, fileName string, chunk []byte) error {
	args := m.Called(ctx, sessionID, fileName, chunk)
	return args.Error(0)
}

func (m *MockPipelineService) CompleteUpload(ctx context.Context, sessionID string) (<-chan struct{}, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan struct{}), args.Error(1)
}

func (m *MockPipelineService) AbortUpload(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockPipelineService) GetStatus(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockPipelineService) RecentSessions(ctx context.Context, n int) ([]domain.Session, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockPipelineService) Heartbeat(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockPipelineService) OpenArtifact(ctx context.Context, sessionID string) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(int64), args.Error(2)
}
