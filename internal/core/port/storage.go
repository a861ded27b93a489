package port

import (
	"context"
	"io"
)

// ArtifactStorage is an interface to define artifact storage interactions
type ArtifactStorage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Remove(ctx context.Context, key string) error
}
