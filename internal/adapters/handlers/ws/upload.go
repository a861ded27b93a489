package ws

import (
	"encoding/json"
	"errors"
	"net/http"

	"filedrop/internal/core/domain"

	"github.com/gorilla/websocket"
)

// UploadWS ingests a chunk stream. The client names the target file with a
// "file" control frame, then sends its bytes as binary frames; chunks for
// one file name append in arrival order. The session is created when the
// first chunk arrives and the "complete" frame is acknowledged as soon as
// processing is scheduled, never after it finished.
func (h *Handler) UploadWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	owner := h.verifier.Identify(r)

	var sessionID, currentFile string
	completed := false

	defer func() {
		// a dropped connection mid-upload leaves nothing behind
		if sessionID != "" && !completed {
			if err := h.service.AbortUpload(ctx, sessionID); err != nil {
				h.logger.Error("failed to abort upload", "session_id", sessionID, "error", err)
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		switch messageType {
		case websocket.TextMessage:
			var frame clientFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				h.writeError(conn, codeInvalidInput, "malformed control frame")
				return
			}

			switch frame.Type {
			case frameFile:
				currentFile = frame.Name
			case frameComplete:
				if sessionID == "" {
					h.writeError(conn, codeInvalidInput, "file is required")
					return
				}
				if _, err := h.service.CompleteUpload(ctx, sessionID); err != nil {
					if errors.Is(err, domain.ErrNoFilesProvided) {
						h.writeError(conn, codeInvalidInput, "file is required")
						return
					}
					h.logger.Error("failed to complete upload", "session_id", sessionID, "error", err)
					h.writeError(conn, codeInternal, "upload failed")
					return
				}
				completed = true
				h.writeFrame(conn, serverFrame{
					Type:      frameAccepted,
					SessionID: sessionID,
					Message:   "Processing Started",
				})
				return
			default:
				h.writeError(conn, codeInvalidInput, "unknown control frame")
				return
			}

		case websocket.BinaryMessage:
			if currentFile == "" {
				h.writeError(conn, codeInvalidInput, "file name not set")
				return
			}
			if sessionID == "" {
				sessionID, err = h.service.BeginUpload(ctx, owner)
				if err != nil {
					h.logger.Error("failed to begin upload", "error", err)
					h.writeError(conn, codeInternal, "upload failed")
					return
				}
			}
			if err := h.service.ReceiveChunk(ctx, sessionID, currentFile, data); err != nil {
				if errors.Is(err, domain.ErrUnsafeFileName) {
					h.writeError(conn, codeInvalidInput, "unsafe file name")
				} else {
					h.logger.Error("failed to stage chunk", "session_id", sessionID, "error", err)
					h.writeError(conn, codeInternal, "upload failed")
				}
				return
			}
		}
	}
}
