package ws_lobby

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, c *Client) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return events
			}
			events = append(events, event)
		default:
			return events
		}
	}
}

func TestBroadcastReachesGroupMembersOnly(t *testing.T) {
	hub := NewHub()
	a := newClient("conn-a", nil)
	b := newClient("conn-b", nil)
	c := newClient("conn-c", nil)
	hub.Register(a)
	hub.Register(b)
	hub.Register(c)

	hub.JoinGroup("conn-a", "lobby-1")
	hub.JoinGroup("conn-b", "lobby-1")
	hub.JoinGroup("conn-c", "lobby-2")

	hub.Broadcast("lobby-1", "lobby-update", "payload")

	require.Len(t, drain(t, a), 1)
	require.Len(t, drain(t, b), 1)
	assert.Empty(t, drain(t, c))
}

func TestJoinGroupIgnoresUnknownConnection(t *testing.T) {
	hub := NewHub()

	hub.JoinGroup("ghost", "lobby-1")
	hub.Broadcast("lobby-1", "lobby-update", "payload")
}

func TestLeaveGroupStopsDelivery(t *testing.T) {
	hub := NewHub()
	a := newClient("conn-a", nil)
	hub.Register(a)
	hub.JoinGroup("conn-a", "lobby-1")

	hub.LeaveGroup("conn-a", "lobby-1")
	hub.Broadcast("lobby-1", "lobby-update", "payload")

	assert.Empty(t, drain(t, a))
}

func TestSendCarriesRequestID(t *testing.T) {
	hub := NewHub()
	a := newClient("conn-a", nil)
	hub.Register(a)

	hub.Send("conn-a", Event{Type: EventAck, RequestID: "req-7", Payload: "ok"})

	events := drain(t, a)
	require.Len(t, events, 1)
	assert.Equal(t, "req-7", events[0].RequestID)
}

func TestSendToUnknownConnectionIsNoop(t *testing.T) {
	hub := NewHub()
	hub.SendToOne("ghost", "session-update", "payload")
}

func TestRemoveClosesSendChannel(t *testing.T) {
	hub := NewHub()
	a := newClient("conn-a", nil)
	hub.Register(a)
	hub.JoinGroup("conn-a", "lobby-1")

	hub.Remove(a)

	_, open := <-a.send
	assert.False(t, open)

	// Idempotent.
	hub.Remove(a)
	hub.Broadcast("lobby-1", "lobby-update", "payload")
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	slow := newClient("conn-slow", nil)
	fast := newClient("conn-fast", nil)
	hub.Register(slow)
	hub.Register(fast)
	hub.JoinGroup("conn-slow", "lobby-1")
	hub.JoinGroup("conn-fast", "lobby-1")

	for i := 0; i < cap(slow.send); i++ {
		hub.Send("conn-slow", Event{Type: "session-update"})
	}

	hub.Broadcast("lobby-1", "lobby-update", "payload")

	// The stuck connection is gone, the healthy one keeps receiving.
	events := drain(t, slow)
	assert.Len(t, events, cap(slow.send))
	_, open := <-slow.send
	assert.False(t, open)

	require.Len(t, drain(t, fast), 1)
	hub.Broadcast("lobby-1", "lobby-update", "again")
	require.Len(t, drain(t, fast), 1)
}
