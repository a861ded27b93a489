package ws

// The streaming surface speaks a small frame protocol: text frames carry
// JSON control messages, binary frames carry raw chunk bytes for the file
// most recently named by a "file" control frame.

// control frame types sent by clients
const (
	frameFile      = "file"      // selects the target file for binary frames
	frameComplete  = "complete"  // ends the upload and triggers processing
	frameStatus    = "status"    // status poll
	frameRecent    = "recent"    // recent-sessions view
	frameHeartbeat = "heartbeat" // activity refresh
)

// frame types sent by the server
const (
	frameAccepted     = "accepted"
	frameEOF          = "eof"
	frameError        = "error"
	frameHeartbeatAck = "heartbeat_ack"
)

// error codes carried by error frames
const (
	codeNotFound     = "not_found"
	codeNotReady     = "not_ready"
	codeInvalidInput = "invalid_input"
	codeInternal     = "internal"
)

type clientFrame struct {
	Type      string `json:"type"`
	Name      string `json:"name,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type sessionSummary struct {
	SessionID     string `json:"session_id"`
	Status        string `json:"status"`
	OwnerIdentity string `json:"owner_identity"`
}

type serverFrame struct {
	Type         string           `json:"type"`
	SessionID    string           `json:"session_id,omitempty"`
	Message      string           `json:"message,omitempty"`
	Status       string           `json:"status,omitempty"`
	Progress     int              `json:"progress,omitempty"`
	ArtifactRef  string           `json:"artifact_ref,omitempty"`
	FailureCause string           `json:"failure_cause,omitempty"`
	Sessions     []sessionSummary `json:"sessions,omitempty"`
	Code         string           `json:"code,omitempty"`
}
