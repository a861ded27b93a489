package fs

import (
	"context"
	"errors"
	"filedrop/internal/core/domain"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Adapter stores artifacts as files under a root directory. This is the
// default backend and mirrors the behavior of keeping finished archives on
// local disk next to the staging area.
type Adapter struct {
	root string
}

// NewAdapter creates the root directory if needed and returns the adapter
func NewAdapter(root string) (*Adapter, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact dir: %w", err)
	}
	return &Adapter{root: root}, nil
}

func (a *Adapter) path(key string) string {
	return filepath.Join(a.root, filepath.Base(key))
}

// Put writes the artifact bytes to disk. The size hint is ignored, the
// reader is drained to EOF.
func (a *Adapter) Put(_ context.Context, key string, reader io.Reader, _ int64) error {
	tmp := a.path(key) + ".partial"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create artifact: %w", err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close artifact: %w", err)
	}
	// rename keeps half-written artifacts invisible to readers
	if err := os.Rename(tmp, a.path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to publish artifact: %w", err)
	}
	return nil
}

// Open opens the artifact for reading and reports its size
func (a *Adapter) Open(_ context.Context, key string) (io.ReadCloser, int64, error) {
	f, err := os.Open(a.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, domain.ErrArtifactNotFound
		}
		return nil, 0, fmt.Errorf("failed to open artifact: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat artifact: %w", err)
	}
	return f, info.Size(), nil
}

// Remove deletes the artifact; a missing artifact is not an error
func (a *Adapter) Remove(_ context.Context, key string) error {
	if err := os.Remove(a.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove artifact: %w", err)
	}
	return nil
}
