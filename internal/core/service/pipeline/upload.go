package pipeline

import (
	"context"
	"filedrop/internal/core/domain"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// BeginUpload creates the session and its staging area. The session starts
// in status processing and belongs to the given caller identity.
func (p *pipelineService) BeginUpload(ctx context.Context, ownerIdentity string) (string, error) {
	sessionID := uuid.New().String()

	dir := p.stagingPath(sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create staging area: %w", err)
	}

	if err := p.store.Create(ctx, sessionID, ownerIdentity); err != nil {
		os.RemoveAll(dir)
		return "", err
	}

	p.logger.Info("upload started", "session_id", sessionID, "owner", ownerIdentity)
	return sessionID, nil
}

// ReceiveChunk appends the chunk to the named staged file. Chunks for one
// file name accumulate in arrival order, so a file may span many chunks.
func (p *pipelineService) ReceiveChunk(ctx context.Context, sessionID string, fileName string, chunk []byte) error {
	if _, err := p.store.Get(ctx, sessionID); err != nil {
		return err
	}

	name, err := sanitizeFileName(fileName)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(p.stagingPath(sessionID), name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(chunk); err != nil {
		return fmt.Errorf("failed to stage chunk: %w", err)
	}

	if err := p.store.Touch(ctx, sessionID); err != nil {
		return err
	}
	return nil
}

// CompleteUpload schedules the packaging run and returns without waiting for
// it. The returned handle closes once the session reached a terminal status.
func (p *pipelineService) CompleteUpload(ctx context.Context, sessionID string) (<-chan struct{}, error) {
	if _, err := p.store.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(p.stagingPath(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to read staging area: %w", err)
	}
	staged := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			staged++
		}
	}
	if staged == 0 {
		return nil, domain.ErrNoFilesProvided
	}

	return p.scheduler.Schedule(ctx, sessionID, p.stagingPath(sessionID))
}

// AbortUpload discards the session and whatever was staged so far
func (p *pipelineService) AbortUpload(ctx context.Context, sessionID string) error {
	if err := p.store.Remove(ctx, sessionID); err != nil {
		return err
	}
	if err := os.RemoveAll(p.stagingPath(sessionID)); err != nil {
		return fmt.Errorf("failed to remove staging area: %w", err)
	}
	p.logger.Info("upload aborted", "session_id", sessionID)
	return nil
}
