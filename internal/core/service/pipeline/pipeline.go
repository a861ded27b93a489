package pipeline

import (
	"filedrop/internal/config"
	"filedrop/internal/core/domain"
	"filedrop/internal/core/port"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

type pipelineService struct {
	store     port.SessionStore
	scheduler port.ProcessScheduler
	storage   port.ArtifactStorage
	uploadCfg config.UploadConfig
	logger    *slog.Logger
}

// NewPipelineService creates the service both transports delegate to
func NewPipelineService(store port.SessionStore, scheduler port.ProcessScheduler, storage port.ArtifactStorage, cfg config.UploadConfig, logger *slog.Logger) port.PipelineService {
	return &pipelineService{
		store:     store,
		scheduler: scheduler,
		storage:   storage,
		uploadCfg: cfg,
		logger:    logger,
	}
}

func (p *pipelineService) stagingPath(sessionID string) string {
	return filepath.Join(p.uploadCfg.StagingDir, sessionID)
}

// sanitizeFileName keeps chunk file names inside the staging area. Anything
// that is not a plain file name is a fatal input error.
func sanitizeFileName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", domain.ErrUnsafeFileName)
	}
	if strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsafeFileName, name)
	}
	cleaned := filepath.Clean(name)
	if cleaned == "." || cleaned == ".." || cleaned != filepath.Base(cleaned) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsafeFileName, name)
	}
	return cleaned, nil
}
