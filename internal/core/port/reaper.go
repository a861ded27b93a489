package port

import (
	"context"
	"time"
)

// ReaperService is the service that evicts inactive sessions
type ReaperService interface {
	Sweep(ctx context.Context, now time.Time) error
}
