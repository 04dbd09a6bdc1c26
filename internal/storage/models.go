package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Event kinds written by the interview service.
const (
	EventSessionCreated   = "session_created"
	EventTurnRecorded     = "turn_recorded"
	EventSummaryGenerated = "summary_generated"
	EventArtifactStored   = "artifact_stored"
)

// Event is one audit record of interview activity. Sessions themselves are
// in-memory only; the event log is a best-effort trail for inspection.
type Event struct {
	ID        string
	SessionID string
	Kind      string
	Payload   string // JSON stored as text
	CreatedAt time.Time
}
