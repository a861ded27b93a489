package ws

import (
	"encoding/json"
	"errors"
	"net/http"

	"filedrop/internal/core/domain"
)

// SessionWS serves status, recent-sessions and heartbeat as request/response
// frames over one connection, mirroring the REST endpoints.
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.writeError(conn, codeInvalidInput, "malformed control frame")
			continue
		}

		switch frame.Type {
		case frameStatus:
			session, err := h.service.GetStatus(ctx, frame.SessionID)
			if errors.Is(err, domain.ErrSessionNotFound) {
				h.writeError(conn, codeNotFound, "session not found")
				continue
			}
			if err != nil {
				h.logger.Error("error getting status", "session_id", frame.SessionID, "error", err)
				h.writeError(conn, codeInternal, "status failed")
				continue
			}
			resp := serverFrame{
				Type:      frameStatus,
				SessionID: session.ID,
				Status:    string(session.Status),
				Progress:  session.Progress,
			}
			if session.Status == domain.SessionStatusCompleted {
				resp.ArtifactRef = "/api/v1/download/" + session.ID
			}
			if session.Status == domain.SessionStatusFailed {
				resp.FailureCause = session.FailureCause
			}
			h.writeFrame(conn, resp)

		case frameRecent:
			sessions, err := h.service.RecentSessions(ctx, domain.RecentSessionsLimit)
			if err != nil {
				h.logger.Error("error listing recent sessions", "error", err)
				h.writeError(conn, codeInternal, "recent failed")
				continue
			}
			summaries := make([]sessionSummary, 0, len(sessions))
			for _, session := range sessions {
				summaries = append(summaries, sessionSummary{
					SessionID:     session.ID,
					Status:        string(session.Status),
					OwnerIdentity: session.OwnerIdentity,
				})
			}
			h.writeFrame(conn, serverFrame{Type: frameRecent, Sessions: summaries})

		case frameHeartbeat:
			err := h.service.Heartbeat(ctx, frame.SessionID)
			if errors.Is(err, domain.ErrSessionNotFound) {
				h.writeError(conn, codeNotFound, "session not found")
				continue
			}
			if err != nil {
				h.logger.Error("error recording heartbeat", "session_id", frame.SessionID, "error", err)
				h.writeError(conn, codeInternal, "heartbeat failed")
				continue
			}
			h.writeFrame(conn, serverFrame{Type: frameHeartbeatAck, SessionID: frame.SessionID})

		default:
			h.writeError(conn, codeInvalidInput, "unknown control frame")
		}
	}
}
