package realtime

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id          string
	workspaceID uuid.UUID
	messages    [][]byte
	mu          sync.Mutex
	closed      bool
}

func newMockClient(id string, workspaceID uuid.UUID) *mockClient {
	return &mockClient{
		id:          id,
		workspaceID: workspaceID,
		messages:    make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) WorkspaceID() uuid.UUID {
	return m.workspaceID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	ws1 := uuid.New()
	ws2 := uuid.New()

	client1 := newMockClient("client-1", ws1)
	client2 := newMockClient("client-2", ws1)
	client3 := newMockClient("client-3", ws2)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(ws1))
	assert.Equal(t, 1, hub.ClientCount(ws2))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(ws1))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(ws1))
	assert.Equal(t, 0, hub.ClientCount(ws2))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Unregister_UnknownClient_IsNoOp(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1", uuid.New())

	assert.NotPanics(t, func() {
		hub.Unregister(client)
	})
}

func TestHub_Broadcast_WorkspaceIsolation(t *testing.T) {
	hub := NewHub()

	ws1 := uuid.New()
	ws2 := uuid.New()

	// Clients viewing workspace 1
	client1a := newMockClient("client-1a", ws1)
	client1b := newMockClient("client-1b", ws1)

	// Client viewing workspace 2
	client2 := newMockClient("client-2", ws2)

	hub.Register(client1a)
	hub.Register(client1b)
	hub.Register(client2)

	actor := uuid.New()
	evt := NewActivityEvent("workspace.like", ws1, ws1, actor, true)
	hub.Broadcast(ws1, evt)

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	msgs1a := client1a.GetMessages()
	msgs1b := client1b.GetMessages()
	assert.Len(t, msgs1a, 1, "client1a should receive 1 message")
	assert.Len(t, msgs1b, 1, "client1b should receive 1 message")

	// Workspace 2 client must not see workspace 1 activity
	assert.Empty(t, client2.GetMessages())

	var decoded Event
	require.NoError(t, json.Unmarshal(msgs1a[0], &decoded))
	assert.Equal(t, "workspace.like", decoded.Type)
	assert.Equal(t, ws1, decoded.WorkspaceID)
	assert.Equal(t, actor, decoded.ActorID)
	assert.True(t, decoded.Active)
}

func TestHub_Broadcast_NoClients_IsNoOp(t *testing.T) {
	hub := NewHub()

	assert.NotPanics(t, func() {
		ws := uuid.New()
		hub.Broadcast(ws, NewActivityEvent("device.save", ws, uuid.New(), uuid.New(), false))
	})
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()
	ws := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			client := newMockClient(uuid.NewString(), ws)
			hub.Register(client)
			hub.Broadcast(ws, NewActivityEvent("workspace.save", ws, ws, uuid.New(), n%2 == 0))
			hub.Unregister(client)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.TotalClientCount())
}
