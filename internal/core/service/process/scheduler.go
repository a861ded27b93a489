package process

import (
	"context"
	"filedrop/internal/core/domain"
	"filedrop/internal/core/port"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

type scheduler struct {
	store   port.SessionStore
	storage port.ArtifactStorage
	events  port.EventPublisher
	logger  *slog.Logger

	mu       sync.Mutex
	inflight map[string]chan struct{}
}

// NewScheduler creates a new processing scheduler
func NewScheduler(store port.SessionStore, storage port.ArtifactStorage, events port.EventPublisher, logger *slog.Logger) port.ProcessScheduler {
	return &scheduler{
		store:    store,
		storage:  storage,
		events:   events,
		logger:   logger,
		inflight: make(map[string]chan struct{}),
	}
}

// Schedule starts the detached packaging run for the session. Scheduling a
// session that is already in flight returns the handle of that run;
// scheduling a session that already finished returns a closed handle.
func (s *scheduler) Schedule(ctx context.Context, sessionID string, stagingDir string) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if done, ok := s.inflight[sessionID]; ok {
		return done, nil
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusProcessing {
		done := make(chan struct{})
		close(done)
		return done, nil
	}

	done := make(chan struct{})
	s.inflight[sessionID] = done

	go s.run(sessionID, stagingDir, done)

	return done, nil
}

// run executes off the request path. Once scheduled it goes to completion or
// failure regardless of what the caller does, so it carries its own context.
func (s *scheduler) run(sessionID string, stagingDir string, done chan struct{}) {
	ctx := context.Background()

	artifactKey := sessionID + ".zip"

	packErr := s.pack(ctx, sessionID, stagingDir, artifactKey)
	if packErr != nil {
		s.logger.Error("packaging failed", "session_id", sessionID, "error", packErr)
		if err := s.store.Fail(ctx, sessionID, packErr.Error()); err != nil {
			s.logger.Error("failed to record failure", "session_id", sessionID, "error", err)
		}
	} else {
		if err := s.store.Complete(ctx, sessionID, artifactKey); err != nil {
			s.logger.Error("failed to record completion", "session_id", sessionID, "error", err)
		}
	}

	if err := os.RemoveAll(stagingDir); err != nil {
		s.logger.Warn("failed to remove staging area", "session_id", sessionID, "error", err)
	}

	s.publishOutcome(ctx, sessionID, artifactKey, packErr)

	// the terminal status must be visible before the in-flight handle goes
	// away, so a re-schedule observes a finished session and not a fresh one
	s.mu.Lock()
	delete(s.inflight, sessionID)
	s.mu.Unlock()
	close(done)
}

func (s *scheduler) publishOutcome(ctx context.Context, sessionID string, artifactKey string, packErr error) {
	event := domain.SessionEvent{
		Type:             domain.EventTypeSessionCompleted,
		SessionID:        sessionID,
		ArtifactLocation: artifactKey,
		OccurredAt:       time.Now(),
	}
	if packErr != nil {
		event.Type = domain.EventTypeSessionFailed
		event.ArtifactLocation = ""
		event.FailureCause = packErr.Error()
	}
	if session, err := s.store.Get(ctx, sessionID); err == nil {
		event.OwnerIdentity = session.OwnerIdentity
	}

	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish session event", "session_id", sessionID, "error", err)
	}
}

func (s *scheduler) pack(ctx context.Context, sessionID string, stagingDir string, artifactKey string) error {
	tmp, err := os.CreateTemp("", "filedrop-*.zip")
	if err != nil {
		return fmt.Errorf("failed to create scratch file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := s.writeArchive(ctx, sessionID, stagingDir, tmp); err != nil {
		return err
	}

	info, err := tmp.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to rewind archive: %w", err)
	}

	if err := s.storage.Put(ctx, artifactKey, tmp, info.Size()); err != nil {
		return fmt.Errorf("failed to store artifact: %w", err)
	}
	return nil
}
