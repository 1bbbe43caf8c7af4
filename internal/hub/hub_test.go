package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func receive(t *testing.T, c *Client) Outbound {
	t.Helper()
	select {
	case payload, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var msg Outbound
		require.NoError(t, json.Unmarshal(payload, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Outbound{}
	}
}

func TestBroadcastReachesRoomMembers(t *testing.T) {
	h := startHub(t)

	c1 := NewClient("c1", h, nil)
	c2 := NewClient("c2", h, nil)
	h.Register(c1)
	h.Register(c2)
	h.JoinRoom(c1, DefaultRoom)
	h.JoinRoom(c2, DefaultRoom)

	h.Broadcast(DefaultRoom, Outbound{Type: "new_message", Data: map[string]string{"body": "hi"}})

	assert.Equal(t, "new_message", receive(t, c1).Type)
	assert.Equal(t, "new_message", receive(t, c2).Type)
}

func TestBroadcastScopedToRoom(t *testing.T) {
	h := startHub(t)

	c1 := NewClient("c1", h, nil)
	c2 := NewClient("c2", h, nil)
	h.Register(c1)
	h.Register(c2)
	h.JoinRoom(c1, "alpha")
	h.JoinRoom(c2, "beta")

	h.Broadcast("alpha", Outbound{Type: "status"})
	// A second broadcast to alpha proves the first cycle fully completed
	// before we inspect c2.
	h.Broadcast("alpha", Outbound{Type: "status"})

	receive(t, c1)
	receive(t, c1)
	assert.Empty(t, c2.Send)
}

func TestBroadcastExceptSkipsConnection(t *testing.T) {
	h := startHub(t)

	c1 := NewClient("c1", h, nil)
	c2 := NewClient("c2", h, nil)
	h.Register(c1)
	h.Register(c2)
	h.JoinRoom(c1, DefaultRoom)
	h.JoinRoom(c2, DefaultRoom)

	h.BroadcastExcept(DefaultRoom, "c1", Outbound{Type: "user_typing"})
	h.BroadcastExcept(DefaultRoom, "c1", Outbound{Type: "user_typing"})

	receive(t, c2)
	receive(t, c2)
	assert.Empty(t, c1.Send)
}

func TestUnregisterClosesSend(t *testing.T) {
	h := startHub(t)

	c1 := NewClient("c1", h, nil)
	h.Register(c1)
	h.JoinRoom(c1, DefaultRoom)
	h.Unregister(c1)

	select {
	case _, ok := <-c1.Send:
		assert.False(t, ok, "send channel should be closed after unregister")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestSendMessageAfterUnregisterDropsQuietly(t *testing.T) {
	h := startHub(t)

	c1 := NewClient("c1", h, nil)
	h.Register(c1)
	h.JoinRoom(c1, DefaultRoom)
	h.Unregister(c1)

	// Wait until the hub has processed the unregister and closed the queue.
	select {
	case _, ok := <-c1.Send:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	// The read goroutine may still be mid-reply when the hub evicts the
	// client; this must drop the message, not panic.
	c1.SendMessage(Outbound{Type: "status"})
}

func TestBroadcastSkipsDepartedClient(t *testing.T) {
	h := startHub(t)

	c1 := NewClient("c1", h, nil)
	h.Register(c1)
	h.Unregister(c1)

	select {
	case _, ok := <-c1.Send:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	// A racing read loop can re-join a room after eviction; broadcasts to
	// that room must not send on the closed queue.
	h.JoinRoom(c1, DefaultRoom)
	h.Broadcast(DefaultRoom, Outbound{Type: "status"})
	h.Broadcast(DefaultRoom, Outbound{Type: "status"})

	c2 := NewClient("c2", h, nil)
	h.Register(c2)
	h.JoinRoom(c2, DefaultRoom)
	h.Broadcast(DefaultRoom, Outbound{Type: "new_message"})
	assert.Equal(t, "new_message", receive(t, c2).Type)
}

func TestJoinLeaveRoomSize(t *testing.T) {
	h := startHub(t)

	c1 := NewClient("c1", h, nil)
	h.Register(c1)

	h.JoinRoom(c1, "side")
	assert.Equal(t, 1, h.RoomSize("side"))

	h.LeaveRoom(c1, "side")
	assert.Equal(t, 0, h.RoomSize("side"))
}
