package pipeline

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"filedrop/internal/core/domain"
)

// V1UploadResponse is the response to a completed upload
type V1UploadResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// UploadV1 ingests a multipart body. Every file part is staged into one
// fresh session; the response returns as soon as ingestion finished, while
// packaging runs in the background.
func (h *HandlerV1) UploadV1(w http.ResponseWriter, r *http.Request) {

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	mr, err := r.MultipartReader()
	if err != nil {
		http.Error(w, "multipart body is required", http.StatusBadRequest)
		return
	}

	var sessionID string
	abort := func() {
		if sessionID != "" {
			if abortErr := h.service.AbortUpload(r.Context(), sessionID); abortErr != nil {
				h.logger.Error("failed to abort upload", "session_id", sessionID, "error", abortErr)
			}
		}
	}

	buf := make([]byte, 32<<10)
	for {
		part, partErr := mr.NextPart()
		if errors.Is(partErr, io.EOF) {
			break
		}
		if partErr != nil {
			abort()
			http.Error(w, "malformed multipart body", http.StatusBadRequest)
			return
		}
		if part.FileName() == "" {
			continue
		}

		// the session exists from the first file part onward; a body
		// without file parts is rejected before any session is created
		if sessionID == "" {
			sessionID, err = h.service.BeginUpload(r.Context(), h.verifier.Identify(r))
			if err != nil {
				h.logger.Error("failed to begin upload", "error", err)
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		if err := h.stagePart(r, sessionID, part, buf); err != nil {
			abort()
			switch {
			case errors.Is(err, domain.ErrUnsafeFileName):
				http.Error(w, "unsafe file name", http.StatusBadRequest)
			default:
				h.logger.Error("failed to stage file part", "session_id", sessionID, "error", err)
				http.Error(w, "upload failed", http.StatusBadRequest)
			}
			return
		}
	}

	if sessionID == "" {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}

	if _, err := h.service.CompleteUpload(r.Context(), sessionID); err != nil {
		abort()
		if errors.Is(err, domain.ErrNoFilesProvided) {
			http.Error(w, "file is required", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to complete upload", "session_id", sessionID, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := V1UploadResponse{
		Success:   true,
		SessionID: sessionID,
		Message:   "Files uploaded successfully.",
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

func (h *HandlerV1) stagePart(r *http.Request, sessionID string, part *multipart.Part, buf []byte) error {
	fileName := part.FileName()
	staged := false
	for {
		n, readErr := part.Read(buf)
		if n > 0 {
			if err := h.service.ReceiveChunk(r.Context(), sessionID, fileName, buf[:n]); err != nil {
				return err
			}
			staged = true
		}
		if errors.Is(readErr, io.EOF) {
			if !staged {
				// an empty part still gets its staged file, so it shows
				// up as an empty entry in the archive
				return h.service.ReceiveChunk(r.Context(), sessionID, fileName, nil)
			}
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
