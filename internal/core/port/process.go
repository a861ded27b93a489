package port

import "context"

// ProcessScheduler launches the detached packaging run for a session.
// At most one run per session is ever in flight; scheduling the same
// session again returns the handle of the existing or finished run.
type ProcessScheduler interface {
	Schedule(ctx context.Context, sessionID string, stagingDir string) (<-chan struct{}, error)
}
