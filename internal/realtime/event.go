package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is an activity message broadcast to viewers of a workspace page.
// Format: { type, workspaceId, targetId, actorId, active, timestamp }
type Event struct {
	Type        string    `json:"type"`        // e.g. "workspace.like", "device.save"
	WorkspaceID uuid.UUID `json:"workspaceId"` // the page the event belongs to
	TargetID    uuid.UUID `json:"targetId"`    // the workspace or device toggled
	ActorID     uuid.UUID `json:"actorId"`     // who toggled
	Active      bool      `json:"active"`      // new state: on or off
	Timestamp   time.Time `json:"timestamp"`
}

// NewActivityEvent creates an activity event
func NewActivityEvent(kind string, workspaceID, targetID, actorID uuid.UUID, active bool) Event {
	return Event{
		Type:        kind,
		WorkspaceID: workspaceID,
		TargetID:    targetID,
		ActorID:     actorID,
		Active:      active,
		Timestamp:   time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
