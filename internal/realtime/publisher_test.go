package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_Implements_ActivityPublisher(t *testing.T) {
	var _ ActivityPublisher = (*Hub)(nil)
}

func TestHub_PublishActivity(t *testing.T) {
	hub := NewHub()

	ws := uuid.New()
	client := newMockClient("client-1", ws)
	hub.Register(client)

	deviceID := uuid.New()
	actorID := uuid.New()

	var publisher ActivityPublisher = hub
	publisher.PublishActivity("device.save", ws, deviceID, actorID, true)

	// Allow async broadcast to complete
	time.Sleep(10 * time.Millisecond)

	messages := client.GetMessages()
	require.Len(t, messages, 1)

	var evt Event
	require.NoError(t, json.Unmarshal(messages[0], &evt))
	assert.Equal(t, "device.save", evt.Type)
	assert.Equal(t, deviceID, evt.TargetID)
	assert.Equal(t, actorID, evt.ActorID)
	assert.True(t, evt.Active)
}

func TestNoOpPublisher_Implements_ActivityPublisher(t *testing.T) {
	var _ ActivityPublisher = (*NoOpPublisher)(nil)
}

func TestNoOpPublisher_PublishActivity(t *testing.T) {
	publisher := &NoOpPublisher{}

	assert.NotPanics(t, func() {
		publisher.PublishActivity("workspace.like", uuid.New(), uuid.New(), uuid.New(), false)
	})
}
