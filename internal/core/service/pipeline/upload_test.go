package pipeline_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"filedrop/internal/adapters/repository/memory"
	"filedrop/internal/adapters/storage"
	"filedrop/internal/config"
	"filedrop/internal/core/domain"
	"filedrop/internal/core/port"
	"filedrop/internal/core/service/pipeline"
	"filedrop/internal/core/service/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service   port.PipelineService
	store     *memory.SessionStore
	scheduler *process.MockScheduler
	storage   *storage.MockStorage
	cfg       config.UploadConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewSessionStore()
	scheduler := process.NewMockScheduler()
	mockStorage := storage.NewMockStorage()
	cfg := config.UploadConfig{StagingDir: t.TempDir()}
	return &fixture{
		service:   pipeline.NewPipelineService(store, scheduler, mockStorage, cfg, slog.Default()),
		store:     store,
		scheduler: scheduler,
		storage:   mockStorage,
		cfg:       cfg,
	}
}

func TestPipelineService_BeginUpload(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)

	// Act
	sessionID, err := f.service.BeginUpload(ctx, "10.0.0.1")

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	session, err := f.store.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusProcessing, session.Status)
	assert.Equal(t, "10.0.0.1", session.OwnerIdentity)
	assert.Empty(t, session.ArtifactLocation)

	info, statErr := os.Stat(filepath.Join(f.cfg.StagingDir, sessionID))
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestPipelineService_ReceiveChunk_AppendsAcrossChunks(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	sessionID, err := f.service.BeginUpload(ctx, "owner")
	require.NoError(t, err)

	// Act
	require.NoError(t, f.service.ReceiveChunk(ctx, sessionID, "a.txt", []byte("hello ")))
	require.NoError(t, f.service.ReceiveChunk(ctx, sessionID, "a.txt", []byte("world")))

	// Assert
	staged, readErr := os.ReadFile(filepath.Join(f.cfg.StagingDir, sessionID, "a.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "hello world", string(staged))
}

func TestPipelineService_ReceiveChunk_EmptyChunkCreatesFile(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	sessionID, err := f.service.BeginUpload(ctx, "owner")
	require.NoError(t, err)

	// Act
	err = f.service.ReceiveChunk(ctx, sessionID, "empty.txt", nil)

	// Assert
	require.NoError(t, err)
	staged, readErr := os.ReadFile(filepath.Join(f.cfg.StagingDir, sessionID, "empty.txt"))
	require.NoError(t, readErr)
	assert.Empty(t, staged)
}

func TestPipelineService_ReceiveChunk_UnknownSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)

	// Act
	err := f.service.ReceiveChunk(ctx, "missing", "a.txt", []byte("x"))

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestPipelineService_ReceiveChunk_RejectsUnsafeFileNames(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	sessionID, err := f.service.BeginUpload(ctx, "owner")
	require.NoError(t, err)

	unsafe := []string{
		"",
		".",
		"..",
		"../evil.txt",
		"/etc/passwd",
		"nested/evil.txt",
		`nested\evil.txt`,
		"..\\evil.txt",
	}

	for _, name := range unsafe {
		// Act
		err := f.service.ReceiveChunk(ctx, sessionID, name, []byte("x"))

		// Assert
		assert.ErrorIs(t, err, domain.ErrUnsafeFileName, "name %q", name)
	}

	entries, readErr := os.ReadDir(filepath.Join(f.cfg.StagingDir, sessionID))
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestPipelineService_CompleteUpload_SchedulesProcessing(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	sessionID, err := f.service.BeginUpload(ctx, "owner")
	require.NoError(t, err)
	require.NoError(t, f.service.ReceiveChunk(ctx, sessionID, "a.txt", []byte("x")))

	done := make(chan struct{})
	close(done)
	stagingDir := filepath.Join(f.cfg.StagingDir, sessionID)
	f.scheduler.On("Schedule", ctx, sessionID, stagingDir).Return((<-chan struct{})(done), nil)

	// Act
	handle, err := f.service.CompleteUpload(ctx, sessionID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, handle)
	f.scheduler.AssertExpectations(t)
}

func TestPipelineService_CompleteUpload_NoStagedFiles(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	sessionID, err := f.service.BeginUpload(ctx, "owner")
	require.NoError(t, err)

	// Act
	handle, err := f.service.CompleteUpload(ctx, sessionID)

	// Assert
	assert.ErrorIs(t, err, domain.ErrNoFilesProvided)
	assert.Nil(t, handle)
	f.scheduler.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestPipelineService_CompleteUpload_UnknownSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)

	// Act
	handle, err := f.service.CompleteUpload(ctx, "missing")

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Nil(t, handle)
}

func TestPipelineService_AbortUpload_RemovesSessionAndStaging(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	sessionID, err := f.service.BeginUpload(ctx, "owner")
	require.NoError(t, err)
	require.NoError(t, f.service.ReceiveChunk(ctx, sessionID, "a.txt", []byte("x")))

	// Act
	err = f.service.AbortUpload(ctx, sessionID)

	// Assert
	require.NoError(t, err)
	_, getErr := f.store.Get(ctx, sessionID)
	assert.ErrorIs(t, getErr, domain.ErrSessionNotFound)
	_, statErr := os.Stat(filepath.Join(f.cfg.StagingDir, sessionID))
	assert.True(t, os.IsNotExist(statErr))
}
