package port

import (
	"context"
	"filedrop/internal/core/domain"
	"io"
)

// PipelineService is the single internal surface behind both transports.
// Upload ingestion, status polling, heartbeats and artifact download all go
// through it so the REST and streaming adapters cannot drift apart.
type PipelineService interface {
	// BeginUpload creates a tracked session owned by the given caller
	// identity, with its staging area, and returns the session id.
	BeginUpload(ctx context.Context, ownerIdentity string) (string, error)
	// ReceiveChunk appends the chunk bytes to the named staged file.
	// Repeated chunks for one file name append in arrival order.
	ReceiveChunk(ctx context.Context, sessionID string, fileName string, chunk []byte) error
	// CompleteUpload hands the staging area to the scheduler and returns a
	// handle that is closed once background processing finished. It does
	// not block on processing.
	CompleteUpload(ctx context.Context, sessionID string) (<-chan struct{}, error)
	// AbortUpload discards a half-ingested session and its staging area.
	AbortUpload(ctx context.Context, sessionID string) error

	GetStatus(ctx context.Context, sessionID string) (*domain.Session, error)
	RecentSessions(ctx context.Context, n int) ([]domain.Session, error)
	Heartbeat(ctx context.Context, sessionID string) error

	// OpenArtifact opens the finished artifact for streaming. It returns
	// domain.ErrSessionNotFound for unknown sessions and
	// domain.ErrArtifactNotReady for sessions that did not complete.
	OpenArtifact(ctx context.Context, sessionID string) (io.ReadCloser, int64, error)
}
