package ws

import (
	"errors"
	"io"
	"net/http"

	"filedrop/internal/core/domain"

	"github.com/gorilla/websocket"
)

// DownloadWS streams the finished artifact as binary frames in file-offset
// order, closing with an eof frame. There is no partial resume; a receiver
// that lost the connection re-opens from byte 0.
func (h *Handler) DownloadWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.writeError(conn, codeInvalidInput, "session id is required")
		return
	}

	artifact, _, err := h.service.OpenArtifact(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		h.writeError(conn, codeNotFound, "session not found")
		return
	case errors.Is(err, domain.ErrArtifactNotReady):
		h.writeError(conn, codeNotReady, "file not ready")
		return
	case errors.Is(err, domain.ErrProcessingFailed):
		h.writeError(conn, codeNotReady, "file processing failed")
		return
	case err != nil:
		h.logger.Error("error opening artifact", "session_id", sessionID, "error", err)
		h.writeError(conn, codeInternal, "download failed")
		return
	}
	defer artifact.Close()

	buf := make([]byte, domain.DownloadChunkSize)
	for {
		n, readErr := artifact.Read(buf)
		if n > 0 {
			if err := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); err != nil {
				h.logger.Warn("download interrupted", "session_id", sessionID, "error", err)
				return
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			h.logger.Error("error reading artifact", "session_id", sessionID, "error", readErr)
			h.writeError(conn, codeInternal, "download failed")
			return
		}
	}

	h.writeFrame(conn, serverFrame{Type: frameEOF, SessionID: sessionID})
}
