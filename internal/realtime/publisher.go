package realtime

import "github.com/google/uuid"

// ActivityPublisher is the interface toggle operations use to fan activity
// out to connected viewers
type ActivityPublisher interface {
	PublishActivity(kind string, workspaceID, targetID, actorID uuid.UUID, active bool)
}

// PublishActivity builds an activity event and broadcasts it to every
// client viewing the workspace
func (h *Hub) PublishActivity(kind string, workspaceID, targetID, actorID uuid.UUID, active bool) {
	h.Broadcast(workspaceID, NewActivityEvent(kind, workspaceID, targetID, actorID, active))
}

// NoOpPublisher discards activity events. Used when realtime delivery is
// disabled or in tests.
type NoOpPublisher struct{}

// PublishActivity does nothing
func (p *NoOpPublisher) PublishActivity(kind string, workspaceID, targetID, actorID uuid.UUID, active bool) {
}
