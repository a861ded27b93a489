package process

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/flate"
)

// writeArchive packages every staged file into one zip stream, advancing the
// session progress after each entry. Entry order is sorted by name so two
// runs over the same staging area produce identical archives.
func (s *scheduler) writeArchive(ctx context.Context, sessionID string, stagingDir string, out io.Writer) error {
	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		return fmt.Errorf("failed to read staging area: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestSpeed)
	})

	for i, name := range names {
		if err := s.addEntry(zw, stagingDir, name); err != nil {
			zw.Close()
			return err
		}
		// leave headroom for the storage upload before 100
		progress := (i + 1) * 100 / (len(names) + 1)
		if err := s.store.SetProgress(ctx, sessionID, progress); err != nil {
			s.logger.Warn("failed to record progress", "session_id", sessionID, "error", err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func (s *scheduler) addEntry(zw *zip.Writer, stagingDir string, name string) error {
	src, err := os.Open(filepath.Join(stagingDir, name))
	if err != nil {
		return fmt.Errorf("failed to open staged file %s: %w", name, err)
	}
	defer src.Close()

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", name, err)
	}
	return nil
}
