package repository

import (
	"context"
	"filedrop/internal/core/domain"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockSessionStore struct {
	mock.Mock
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

func (m *MockSessionStore) Create(ctx context.Context, id string, ownerIdentity string) error {
	args := m.Called(ctx, id, ownerIdentity)
	return args.Error(0)
}

func (m *MockSessionStore) Complete(ctx context.Context, id string, artifactLocation string) error {
	args := m.Called(ctx, id, artifactLocation)
	return args.Error(0)
}

func (m *MockSessionStore) Fail(ctx context.Context, id string, cause string) error {
	args := m.Called(ctx, id, cause)
	return args.Error(0)
}

func (m *MockSessionStore) SetProgress(ctx context.Context, id string, progress int) error {
	args := m.Called(ctx, id, progress)
	return args.Error(0)
}

func (m *MockSessionStore) Touch(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionStore) Recent(ctx context.Context, n int) ([]domain.Session, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessionStore) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) RemoveInactive(ctx context.Context, cutoff time.Time) ([]domain.Session, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Session), args.Error(1)
}
