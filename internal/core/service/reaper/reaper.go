package reaper

import (
	"context"
	"filedrop/internal/config"
	"filedrop/internal/core/domain"
	"filedrop/internal/core/port"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type reaperService struct {
	store     port.SessionStore
	storage   port.ArtifactStorage
	events    port.EventPublisher
	uploadCfg config.UploadConfig
	logger    *slog.Logger
	mu        sync.Mutex
}

// NewReaperService creates a new session reaper
func NewReaperService(store port.SessionStore, storage port.ArtifactStorage, events port.EventPublisher, cfg config.UploadConfig, logger *slog.Logger) port.ReaperService {
	return &reaperService{
		store:     store,
		storage:   storage,
		events:    events,
		uploadCfg: cfg,
		logger:    logger,
	}
}

// Sweep evicts every session inactive for longer than the configured
// threshold and reclaims its staging and artifact storage. One cutoff is
// computed per sweep, and the store evicts under the same lock it uses for
// touches, so a session refreshed during the sweep survives. Overlapping
// sweeps are skipped instead of queued.
func (r *reaperService) Sweep(ctx context.Context, now time.Time) error {
	if !r.mu.TryLock() {
		r.logger.Warn("sweep already running, skipping")
		return nil
	}
	defer r.mu.Unlock()

	cutoff := now.Add(-r.uploadCfg.InactivityTimeout)

	evicted, err := r.store.RemoveInactive(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, session := range evicted {
		if err := os.RemoveAll(filepath.Join(r.uploadCfg.StagingDir, session.ID)); err != nil {
			r.logger.Warn("failed to remove staging area", "session_id", session.ID, "error", err)
		}
		if session.ArtifactLocation != "" {
			if err := r.storage.Remove(ctx, session.ArtifactLocation); err != nil {
				r.logger.Warn("failed to remove artifact", "session_id", session.ID, "error", err)
			}
		}

		event := domain.SessionEvent{
			Type:          domain.EventTypeSessionExpired,
			SessionID:     session.ID,
			OwnerIdentity: session.OwnerIdentity,
			OccurredAt:    now,
		}
		if err := r.events.Publish(ctx, event); err != nil {
			r.logger.Warn("failed to publish session event", "session_id", session.ID, "error", err)
		}

		r.logger.Info("session evicted", "session_id", session.ID, "last_activity", session.LastActivity)
	}

	return nil
}
