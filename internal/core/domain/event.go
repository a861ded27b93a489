package domain

import "time"

// EventType is a type that represents the type of a session lifecycle event
type EventType string

const (
	EventTypeSessionCompleted EventType = "SessionCompleted"
	EventTypeSessionFailed    EventType = "SessionFailed"
	EventTypeSessionExpired   EventType = "SessionExpired"
)

// SessionEvent is a struct that represents a session lifecycle notification
type SessionEvent struct {
	Type             EventType `json:"type"`
	SessionID        string    `json:"session_id"`
	OwnerIdentity    string    `json:"owner_identity"`
	ArtifactLocation string    `json:"artifact_location,omitempty"`
	FailureCause     string    `json:"failure_cause,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
