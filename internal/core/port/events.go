package port

import (
	"context"
	"filedrop/internal/core/domain"
)

// EventPublisher is an interface to define a session event publisher (nats, kafka, ...)
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SessionEvent) error
}
