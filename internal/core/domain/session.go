package domain

import "time"

// SessionStatus represents the status of a processing session
type SessionStatus string

const (
	SessionStatusProcessing SessionStatus = "processing"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusFailed     SessionStatus = "failed"
)

// DownloadChunkSize is the chunk size used when streaming an artifact back
// to a caller. Chunk boundaries carry no meaning for the receiver.
const DownloadChunkSize = 1 << 20

// RecentSessionsLimit caps the recent-sessions view. Shared by both
// surfaces so they cannot drift apart.
const RecentSessionsLimit = 5

// Session represents one upload-to-download lifecycle.
// ArtifactLocation is non-empty if and only if Status is completed.
type Session struct {
	ID               string
	OwnerIdentity    string
	Status           SessionStatus
	Progress         int
	ArtifactLocation string
	FailureCause     string
	LastActivity     time.Time
	CreatedAt        time.Time
}
