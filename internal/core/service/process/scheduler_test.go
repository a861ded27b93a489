package process_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"filedrop/internal/adapters/eventbroker"
	"filedrop/internal/adapters/repository/memory"
	"filedrop/internal/adapters/storage"
	"filedrop/internal/adapters/storage/fs"
	"filedrop/internal/core/domain"

	"filedrop/internal/core/service/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stageFiles(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0o644))
	}
	return dir
}

func awaitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("processing did not finish in time")
	}
}

func TestScheduler_PackagesStagedFilesIntoArchive(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewSessionStore()
	artifacts, err := fs.NewAdapter(t.TempDir())
	require.NoError(t, err)
	events := eventbroker.NewMockPublisher()
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	scheduler := process.NewScheduler(store, artifacts, events, slog.Default())

	files := map[string][]byte{
		"a.txt": []byte("alpha content"),
		"b.txt": []byte("bravo content"),
	}
	stagingDir := stageFiles(t, files)
	require.NoError(t, store.Create(ctx, "s1", "owner"))

	// Act
	done, err := scheduler.Schedule(ctx, "s1", stagingDir)

	// Assert
	require.NoError(t, err)
	awaitDone(t, done)

	session, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusCompleted, session.Status)
	assert.Equal(t, "s1.zip", session.ArtifactLocation)
	assert.Equal(t, 100, session.Progress)

	rc, _, err := artifacts.Open(ctx, session.ArtifactLocation)
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	for _, entry := range zr.File {
		want, ok := files[entry.Name]
		require.True(t, ok, "unexpected archive entry %s", entry.Name)
		f, openErr := entry.Open()
		require.NoError(t, openErr)
		got, readErr := io.ReadAll(f)
		f.Close()
		require.NoError(t, readErr)
		assert.Equal(t, want, got)
	}

	// staging area is consumed by the run
	_, statErr := os.Stat(stagingDir)
	assert.True(t, os.IsNotExist(statErr))

	events.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e domain.SessionEvent) bool {
		return e.Type == domain.EventTypeSessionCompleted && e.SessionID == "s1"
	}))
}

func TestScheduler_ConcurrentScheduleRunsExactlyOnce(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewSessionStore()
	mockStorage := storage.NewMockStorage()
	mockStorage.On("Put", mock.Anything, "s1.zip", mock.Anything, mock.Anything).Return(nil).Once()
	events := eventbroker.NewMockPublisher()
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	scheduler := process.NewScheduler(store, mockStorage, events, slog.Default())

	stagingDir := stageFiles(t, map[string][]byte{"a.txt": []byte("x")})
	require.NoError(t, store.Create(ctx, "s1", "owner"))

	// Act
	var wg sync.WaitGroup
	handles := make([]<-chan struct{}, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			done, err := scheduler.Schedule(ctx, "s1", stagingDir)
			require.NoError(t, err)
			handles[n] = done
		}(i)
	}
	wg.Wait()

	// Assert
	for _, done := range handles {
		awaitDone(t, done)
	}
	session, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusCompleted, session.Status)
	mockStorage.AssertExpectations(t)
}

func TestScheduler_RescheduleAfterCompletionIsNoOp(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewSessionStore()
	mockStorage := storage.NewMockStorage()
	mockStorage.On("Put", mock.Anything, "s1.zip", mock.Anything, mock.Anything).Return(nil).Once()
	events := eventbroker.NewMockPublisher()
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	scheduler := process.NewScheduler(store, mockStorage, events, slog.Default())

	stagingDir := stageFiles(t, map[string][]byte{"a.txt": []byte("x")})
	require.NoError(t, store.Create(ctx, "s1", "owner"))
	done, err := scheduler.Schedule(ctx, "s1", stagingDir)
	require.NoError(t, err)
	awaitDone(t, done)

	// Act
	again, err := scheduler.Schedule(ctx, "s1", stagingDir)

	// Assert
	require.NoError(t, err)
	awaitDone(t, again)
	mockStorage.AssertExpectations(t)
}

func TestScheduler_FailureTransitionsSessionToFailed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewSessionStore()
	mockStorage := storage.NewMockStorage()
	mockStorage.On("Put", mock.Anything, "s1.zip", mock.Anything, mock.Anything).Return(assert.AnError)
	events := eventbroker.NewMockPublisher()
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	scheduler := process.NewScheduler(store, mockStorage, events, slog.Default())

	stagingDir := stageFiles(t, map[string][]byte{"a.txt": []byte("x")})
	require.NoError(t, store.Create(ctx, "s1", "owner"))

	// Act
	done, err := scheduler.Schedule(ctx, "s1", stagingDir)

	// Assert
	require.NoError(t, err)
	awaitDone(t, done)

	session, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusFailed, session.Status)
	assert.Empty(t, session.ArtifactLocation)
	assert.NotEmpty(t, session.FailureCause)

	events.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e domain.SessionEvent) bool {
		return e.Type == domain.EventTypeSessionFailed && e.FailureCause != ""
	}))
}

func TestScheduler_ScheduleUnknownSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewSessionStore()
	mockStorage := storage.NewMockStorage()
	events := eventbroker.NewMockPublisher()
	scheduler := process.NewScheduler(store, mockStorage, events, slog.Default())

	// Act
	done, err := scheduler.Schedule(ctx, "missing", t.TempDir())

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Nil(t, done)
}
