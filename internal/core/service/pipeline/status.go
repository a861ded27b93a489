package pipeline

import (
	"context"
	"filedrop/internal/core/domain"
)

// GetStatus returns the session state. Reading the status counts as
// activity, so polling keeps a session alive.
func (p *pipelineService) GetStatus(ctx context.Context, sessionID string) (*domain.Session, error) {
	if err := p.store.Touch(ctx, sessionID); err != nil {
		return nil, err
	}
	return p.store.Get(ctx, sessionID)
}

// RecentSessions returns at most n sessions, most recently active first
func (p *pipelineService) RecentSessions(ctx context.Context, n int) ([]domain.Session, error) {
	return p.store.Recent(ctx, n)
}

// Heartbeat refreshes the session activity timestamp
func (p *pipelineService) Heartbeat(ctx context.Context, sessionID string) error {
	return p.store.Touch(ctx, sessionID)
}
