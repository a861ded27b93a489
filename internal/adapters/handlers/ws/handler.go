package ws

import (
	"log/slog"
	"net/http"

	"filedrop/internal/adapters/auth"
	"filedrop/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// Handler serves the streaming surface over websocket connections. It
// delegates to the same pipeline service as the REST handlers, so both
// surfaces share one state machine and error taxonomy.
type Handler struct {
	service  port.PipelineService
	verifier *auth.Verifier
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates the websocket handler
func NewHandler(service port.PipelineService, verifier *auth.Verifier, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		verifier: verifier,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Routes exposes handler routes
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/upload", h.UploadWS)
	router.Get("/download", h.DownloadWS)
	router.Get("/session", h.SessionWS)

	return router
}

func (h *Handler) writeFrame(conn *websocket.Conn, frame serverFrame) {
	if err := conn.WriteJSON(frame); err != nil {
		h.logger.Warn("failed to write frame", "error", err)
	}
}

func (h *Handler) writeError(conn *websocket.Conn, code string, message string) {
	h.writeFrame(conn, serverFrame{Type: frameError, Code: code, Message: message})
}
