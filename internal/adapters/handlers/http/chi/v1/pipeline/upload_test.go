package pipeline_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"filedrop/internal/adapters/auth"
	handler "filedrop/internal/adapters/handlers/http/chi/v1/pipeline"
	"filedrop/internal/core/domain"
	"filedrop/internal/core/service/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newHandler(service *pipeline.MockPipelineService) *handler.HandlerV1 {
	return handler.NewPipelineHandlerV1(service, auth.NewVerifier(""), 10<<20, slog.Default())
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile(name, name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func closedHandle() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}

func TestUploadV1_StagesAllFileParts(t *testing.T) {
	// Arrange
	service := pipeline.NewMockPipelineService()
	service.On("BeginUpload", mock.Anything, mock.Anything).Return("session-1", nil)
	service.On("ReceiveChunk", mock.Anything, "session-1", "a.txt", mock.Anything).Return(nil)
	service.On("ReceiveChunk", mock.Anything, "session-1", "b.txt", mock.Anything).Return(nil)
	service.On("CompleteUpload", mock.Anything, "session-1").Return(closedHandle(), nil)

	body, contentType := multipartBody(t, map[string][]byte{
		"a.txt": []byte("alpha"),
		"b.txt": []byte("bravo"),
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	// Act
	newHandler(service).Routes().ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.V1UploadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "session-1", resp.SessionID)
	service.AssertExpectations(t)
}

func TestUploadV1_EmptyFilePartIsStaged(t *testing.T) {
	// Arrange
	service := pipeline.NewMockPipelineService()
	service.On("BeginUpload", mock.Anything, mock.Anything).Return("session-1", nil)
	service.On("ReceiveChunk", mock.Anything, "session-1", "a.txt", mock.Anything).Return(nil)
	// a part with no bytes still stages its (empty) file
	service.On("ReceiveChunk", mock.Anything, "session-1", "empty.txt", mock.MatchedBy(func(b []byte) bool {
		return len(b) == 0
	})).Return(nil)
	service.On("CompleteUpload", mock.Anything, "session-1").Return(closedHandle(), nil)

	body, contentType := multipartBody(t, map[string][]byte{
		"a.txt":     []byte("alpha"),
		"empty.txt": {},
	})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	// Act
	newHandler(service).Routes().ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestUploadV1_NoStagedFilesMapsToBadRequest(t *testing.T) {
	// Arrange
	service := pipeline.NewMockPipelineService()
	service.On("BeginUpload", mock.Anything, mock.Anything).Return("session-1", nil)
	service.On("ReceiveChunk", mock.Anything, "session-1", "a.txt", mock.Anything).Return(nil)
	service.On("CompleteUpload", mock.Anything, "session-1").Return(nil, domain.ErrNoFilesProvided)
	service.On("AbortUpload", mock.Anything, "session-1").Return(nil)

	body, contentType := multipartBody(t, map[string][]byte{"a.txt": []byte("x")})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	// Act
	newHandler(service).Routes().ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertCalled(t, "AbortUpload", mock.Anything, "session-1")
}

func TestUploadV1_NoFilePartsRejectedBeforeSessionCreation(t *testing.T) {
	// Arrange
	service := pipeline.NewMockPipelineService()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("note", "not a file"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	// Act
	newHandler(service).Routes().ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "BeginUpload", mock.Anything, mock.Anything)
}

func TestUploadV1_NonMultipartBody(t *testing.T) {
	// Arrange
	service := pipeline.NewMockPipelineService()
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString("raw"))
	rec := httptest.NewRecorder()

	// Act
	newHandler(service).Routes().ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "BeginUpload", mock.Anything, mock.Anything)
}

func TestUploadV1_UnsafeFileNameAbortsSession(t *testing.T) {
	// Arrange
	service := pipeline.NewMockPipelineService()
	service.On("BeginUpload", mock.Anything, mock.Anything).Return("session-1", nil)
	// multipart strips path prefixes from file names, but a Windows-style
	// traversal survives that and must be rejected by the service
	service.On("ReceiveChunk", mock.Anything, "session-1", `..\evil.txt`, mock.Anything).
		Return(domain.ErrUnsafeFileName)
	service.On("AbortUpload", mock.Anything, "session-1").Return(nil)

	body, contentType := multipartBody(t, map[string][]byte{`..\evil.txt`: []byte("x")})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	// Act
	newHandler(service).Routes().ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertCalled(t, "AbortUpload", mock.Anything, "session-1")
	service.AssertNotCalled(t, "CompleteUpload", mock.Anything, mock.Anything)
}
