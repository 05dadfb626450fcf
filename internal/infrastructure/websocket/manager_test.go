package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pratorinaldo/internal/infrastructure/realtime"
)

type testRow struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

func (r *testRow) ItemID() string    { return r.ID }
func (r *testRow) TableName() string { return "test_rows" }

// receive pops the next frame off the client's send channel.
func receive(t *testing.T, client *Client) WSMessage {
	t.Helper()

	select {
	case payload := <-client.Send:
		var msg WSMessage
		require.NoError(t, json.Unmarshal(payload, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame")
		return WSMessage{}
	}
}

func assertSilent(t *testing.T, client *Client) {
	t.Helper()

	select {
	case payload := <-client.Send:
		t.Fatalf("unexpected frame: %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestJoinRoomSendsSnapshot(t *testing.T) {
	m := NewManager()
	client := NewClient("anna", nil)

	m.JoinRoom(client, ConversationRoom("c1"))

	msg := receive(t, client)
	assert.Equal(t, MessageTypeRoomHistory, msg.Type)
	assert.Equal(t, "conversation:c1", msg.Room)
}

func TestDuplicateInsertBroadcastsOnce(t *testing.T) {
	m := NewManager()
	client := NewClient("anna", nil)
	room := ConversationRoom("c1")

	m.JoinRoom(client, room)
	receive(t, client) // history

	ev := realtime.ChangeEvent{
		Type:  realtime.EventInsert,
		Table: "test_rows",
		Item:  &testRow{ID: "m1", Body: "hello"},
	}
	m.Publish(room, ev)
	m.Publish(room, ev) // realtime echo of the same insert

	msg := receive(t, client)
	assert.Equal(t, MessageTypeChange, msg.Type)

	// The duplicate is discarded by the reconciler, so no second
	// broadcast and the list stays at one entry.
	assertSilent(t, client)
	require.Eventually(t, func() bool {
		return len(m.RoomSnapshot(room)) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLastMemberOutTearsDownRoom(t *testing.T) {
	m := NewManager()
	client := NewClient("anna", nil)
	room := CategoryRoom("general")

	m.JoinRoom(client, room)
	receive(t, client)

	m.Publish(room, realtime.ChangeEvent{
		Type:  realtime.EventInsert,
		Table: "test_rows",
		Item:  &testRow{ID: "t1"},
	})
	require.Eventually(t, func() bool {
		return len(m.RoomSnapshot(room)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	m.LeaveRoom(client, room)

	// The room and its binder are gone; publishing into it is a no-op.
	assert.Nil(t, m.RoomSnapshot(room))
	m.Publish(room, realtime.ChangeEvent{
		Type:  realtime.EventInsert,
		Table: "test_rows",
		Item:  &testRow{ID: "t2"},
	})
	assert.Nil(t, m.RoomSnapshot(room))
}

func TestReplaceRoomBroadcastsNewOrdering(t *testing.T) {
	m := NewManager()
	client := NewClient("anna", nil)
	room := CategoryRoom("general")

	m.JoinRoom(client, room)
	receive(t, client)

	// Thread lists are refetched and re-sorted wholesale because their
	// ordering depends on aggregates the change stream does not carry.
	m.ReplaceRoom(room, []realtime.Item{
		&testRow{ID: "pinned"},
		&testRow{ID: "recent"},
	})

	msg := receive(t, client)
	assert.Equal(t, MessageTypeListReplace, msg.Type)
	assert.Len(t, m.RoomSnapshot(room), 2)
}

func TestSendToUserUnknownUserIsNoop(t *testing.T) {
	m := NewManager()
	m.SendToUser("ghost", []byte(`{}`))
}

// Disconnects race against deliveries in normal operation; a send must
// never land on a closed channel.
func TestSendToUserSafeDuringDisconnect(t *testing.T) {
	m := NewManager()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			client := NewClient("anna", nil)
			m.mutex.Lock()
			m.clients[client.UserID] = client
			m.mutex.Unlock()
			m.removeClient(client)
		}
	}()

	for i := 0; i < 500; i++ {
		m.SendToUser("anna", []byte(`{}`))
	}
	<-done
}

func TestTrySendAfterCloseIsRejected(t *testing.T) {
	client := NewClient("anna", nil)
	client.closeSend()
	client.closeSend() // idempotent

	assert.False(t, client.trySend([]byte(`{}`)))
}
