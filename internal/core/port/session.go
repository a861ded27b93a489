package port

import (
	"context"
	"filedrop/internal/core/domain"
	"time"
)

// SessionStore is the concurrent registry of sessions. It is the single
// source of truth for status, owner, artifact location and activity; all
// mutations of session state go through it.
type SessionStore interface {
	Create(ctx context.Context, id string, ownerIdentity string) error
	Complete(ctx context.Context, id string, artifactLocation string) error
	Fail(ctx context.Context, id string, cause string) error
	SetProgress(ctx context.Context, id string, progress int) error
	Touch(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Recent(ctx context.Context, n int) ([]domain.Session, error)
	Remove(ctx context.Context, id string) error
	// RemoveInactive atomically evicts and returns every session whose last
	// activity is before cutoff. A session touched after cutoff survives.
	RemoveInactive(ctx context.Context, cutoff time.Time) ([]domain.Session, error)
}
