package pipeline

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"filedrop/internal/core/domain"

	"github.com/go-chi/chi/v5"
)

// DownloadV1 streams the finished artifact. Unknown sessions and sessions
// that did not complete both answer 404, with distinct causes in the logs.
func (h *HandlerV1) DownloadV1(w http.ResponseWriter, r *http.Request) {

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	artifact, size, err := h.service.OpenArtifact(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrArtifactNotReady):
		h.logger.Info("download before completion", "session_id", sessionID)
		http.Error(w, "file not found or not ready", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrProcessingFailed):
		h.logger.Info("download after failure", "session_id", sessionID, "error", err)
		http.Error(w, "file not found or not ready", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error opening artifact", "session_id", sessionID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	defer artifact.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Content-Disposition", `attachment; filename="processed_files.zip"`)
	w.WriteHeader(http.StatusOK)

	if _, err := io.CopyBuffer(w, artifact, make([]byte, domain.DownloadChunkSize)); err != nil {
		// receiver went away; it will re-open from byte 0
		h.logger.Warn("download interrupted", "session_id", sessionID, "error", err)
	}
}
