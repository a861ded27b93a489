package pipeline

import (
	"encoding/json"
	"errors"
	"net/http"

	"filedrop/internal/core/domain"

	"github.com/go-chi/chi/v5"
)

// V1StatusResponse is the response to a status poll
type V1StatusResponse struct {
	SessionID    string `json:"session_id"`
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	ArtifactRef  string `json:"artifact_ref,omitempty"`
	FailureCause string `json:"failure_cause,omitempty"`
}

// V1RecentSession is one entry of the recent-sessions view
type V1RecentSession struct {
	SessionID     string `json:"session_id"`
	Status        string `json:"status"`
	OwnerIdentity string `json:"owner_identity"`
}

// V1HeartbeatRequest is the heartbeat request body
type V1HeartbeatRequest struct {
	SessionID string `json:"session_id"`
}

// StatusV1 is the function that handles status polling
func (h *HandlerV1) StatusV1(w http.ResponseWriter, r *http.Request) {

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	session, err := h.service.GetStatus(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error getting status", "session_id", sessionID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := statusResponse(session)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

func statusResponse(session *domain.Session) V1StatusResponse {
	resp := V1StatusResponse{
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
	return resp
}

// RecentSessionsV1 is the function that handles the recent-sessions view
func (h *HandlerV1) RecentSessionsV1(w http.ResponseWriter, r *http.Request) {

	sessions, err := h.service.RecentSessions(r.Context(), domain.RecentSessionsLimit)
	if err != nil {
		h.logger.Error("error listing recent sessions", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := make([]V1RecentSession, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, V1RecentSession{
			SessionID:     session.ID,
			Status:        string(session.Status),
			OwnerIdentity: session.OwnerIdentity,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

// HeartbeatV1 is the function that refreshes session activity
func (h *HandlerV1) HeartbeatV1(w http.ResponseWriter, r *http.Request) {

	var req V1HeartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	err := h.service.Heartbeat(r.Context(), req.SessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error recording heartbeat", "session_id", req.SessionID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]bool{"success": true}); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
