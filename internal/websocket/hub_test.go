package websocket

import (
	"testing"
	"time"

	"team-knowledge-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestClient(h *Hub, buffer int) *Client {
	return &Client{
		Hub:    h,
		UserID: uuid.New(),
		Send:   make(chan []byte, buffer),
	}
}

// A client whose Send buffer is already full must not stall the broadcast or
// have its channel closed out from under the unregister path. The message is
// simply dropped for that client.
func TestHubBroadcastDropsForSlowClient(t *testing.T) {
	hub := NewHub(nil, nopLogger{})

	slow := newTestClient(hub, 1)
	slow.Send <- []byte("backlog")

	fast := newTestClient(hub, 1)

	hub.mu.Lock()
	hub.clients[slow.UserID] = []*Client{slow}
	hub.clients[fast.UserID] = []*Client{fast}
	hub.mu.Unlock()

	done := make(chan struct{})
	go func() {
		hub.BroadcastActivity(dto.ActivityResponse{Type: "DOCUMENT_CREATED"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a client with a full buffer")
	}

	select {
	case msg := <-fast.Send:
		assert.Contains(t, string(msg), `"type":"activity"`)
	default:
		t.Fatal("healthy client did not receive the broadcast")
	}

	// The slow client's channel is untouched: the backlog is still there and
	// the channel is still open for the pumps to drain later.
	require.Equal(t, []byte("backlog"), <-slow.Send)
	slow.Send <- []byte("still open")
}

// Back-to-back broadcasts against two saturated clients exercise the path
// where every select hits the default branch twice in a row.
func TestHubBroadcastSurvivesRepeatedFullBuffers(t *testing.T) {
	hub := NewHub(nil, nopLogger{})

	first := newTestClient(hub, 1)
	first.Send <- []byte("a")
	second := newTestClient(hub, 1)
	second.Send <- []byte("b")

	hub.mu.Lock()
	hub.clients[first.UserID] = []*Client{first, second}
	hub.mu.Unlock()

	done := make(chan struct{})
	go func() {
		hub.BroadcastActivity(dto.ActivityResponse{Type: "DOCUMENT_UPDATED"})
		hub.BroadcastActivity(dto.ActivityResponse{Type: "DOCUMENT_DELETED"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("repeated broadcasts blocked on saturated clients")
	}
}

// Only the hub's run loop closes Send; unregistering a client that is already
// gone is a no-op rather than a second close.
func TestHubUnregisterClosesSendOnce(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	client := newTestClient(hub, 1)
	hub.register <- client

	hub.unregister <- client

	select {
	case _, open := <-client.Send:
		assert.False(t, open, "Send should be closed after unregister")
	case <-time.After(2 * time.Second):
		t.Fatal("Send was not closed after unregister")
	}

	// A duplicate unregister for a departed client must not panic.
	hub.unregister <- client

	hub.mu.RLock()
	_, present := hub.clients[client.UserID]
	hub.mu.RUnlock()
	assert.False(t, present)
}
