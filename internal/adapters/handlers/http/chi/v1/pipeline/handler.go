package pipeline

import (
	"log/slog"

	"filedrop/internal/adapters/auth"
	"filedrop/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 pipeline routes
type HandlerV1 struct {
	service       port.PipelineService
	verifier      *auth.Verifier
	maxUploadSize int64
	logger        *slog.Logger
}

// NewPipelineHandlerV1 creates HandlerV1
func NewPipelineHandlerV1(service port.PipelineService, verifier *auth.Verifier, maxUploadSize int64, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		service:       service,
		verifier:      verifier,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/upload", h.UploadV1)
	router.Get("/status/{sessionID}", h.StatusV1)
	router.Get("/recent-sessions", h.RecentSessionsV1)
	router.Post("/heartbeat", h.HeartbeatV1)
	router.Get("/download/{sessionID}", h.DownloadV1)

	return router
}
