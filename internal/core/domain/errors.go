package domain

import "errors"

// ErrSessionNotFound is an error thrown when session is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionAlreadyExists is an error thrown when a session id is created twice
var ErrSessionAlreadyExists = errors.New("session already exists")

// ErrArtifactNotReady is an error thrown when an artifact is requested before processing completed
var ErrArtifactNotReady = errors.New("artifact not ready")

// ErrUnsafeFileName is an error thrown when a chunk file name would escape the staging area
var ErrUnsafeFileName = errors.New("unsafe file name")

// ErrNoFilesProvided is an error thrown when an upload carries no file parts
var ErrNoFilesProvided = errors.New("no files provided")

// ErrProcessingFailed is an error thrown when the background packaging run errored
var ErrProcessingFailed = errors.New("file processing failed")

// ErrArtifactNotFound is an error thrown when an artifact object is missing from storage
var ErrArtifactNotFound = errors.New("artifact not found")
