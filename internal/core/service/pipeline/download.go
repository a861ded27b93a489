package pipeline

import (
	"context"
	"filedrop/internal/core/domain"
	"fmt"
	"io"
)

// OpenArtifact opens the finished artifact for streaming. Unknown sessions
// and sessions that did not complete fail with distinct errors so the two
// conditions stay apart in logs even when transports collapse them into one
// status code.
func (p *pipelineService) OpenArtifact(ctx context.Context, sessionID string) (io.ReadCloser, int64, error) {
	session, err := p.store.Get(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}

	if session.Status == domain.SessionStatusFailed {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrProcessingFailed, session.FailureCause)
	}
	if session.Status != domain.SessionStatusCompleted || session.ArtifactLocation == "" {
		return nil, 0, fmt.Errorf("%w: session is %s", domain.ErrArtifactNotReady, session.Status)
	}

	if err := p.store.Touch(ctx, sessionID); err != nil {
		return nil, 0, err
	}

	return p.storage.Open(ctx, session.ArtifactLocation)
}
