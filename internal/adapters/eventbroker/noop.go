package eventbroker

import (
	"context"
	"filedrop/internal/core/domain"
)

// NoopPublisher drops events, used when no broker is configured
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (NoopPublisher) Publish(_ context.Context, _ domain.SessionEvent) error {
	return nil
}
