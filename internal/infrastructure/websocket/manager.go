package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"pratorinaldo/internal/infrastructure/realtime"
	"pratorinaldo/pkg/logger"
)

// Room name helpers. A room is a filtered subscription: every member
// receives the change events whose foreign key matches the room id.
func ConversationRoom(conversationID string) string {
	return fmt.Sprintf("conversation:%s", conversationID)
}

func CategoryRoom(categoryID string) string {
	return fmt.Sprintf("category:%s", categoryID)
}

func ThreadRoom(threadID string) string {
	return fmt.Sprintf("thread:%s", threadID)
}

func ProposalsRoom(tenantID string) string {
	return fmt.Sprintf("proposals:%s", tenantID)
}

func EventsRoom(tenantID string) string {
	return fmt.Sprintf("events:%s", tenantID)
}

// Client represents one authenticated WebSocket connection.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	rooms map[string]bool // guarded by the manager mutex

	mu     sync.Mutex
	closed bool
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		rooms:  make(map[string]bool),
	}
}

// trySend queues a payload unless the client was already torn down or
// its buffer is full. The closed flag and the close itself share c.mu,
// so a send can never hit a closed channel.
func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// closeSend shuts the send channel exactly once; WritePump exits when
// it drains.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// room is a filtered change channel plus its reconciled list state.
// The binder goroutine lives exactly as long as the room has members.
type room struct {
	name    string
	members map[*Client]bool
	events  chan realtime.ChangeEvent
	state   *realtime.ListState
	cancel  context.CancelFunc
}

// Manager tracks connections, per-user channels and rooms.
type Manager struct {
	clients map[string]*Client
	rooms   map[string]*room

	Register   chan *Client
	Unregister chan *Client

	mutex sync.RWMutex

	// Authorize gates room membership (e.g. conversation participants
	// only). Wired at startup; nil allows everything.
	Authorize func(ctx context.Context, userID, roomName string) error

	// SendMessage persists a chat message sent over the socket. The
	// usecase behind it publishes the confirmed insert event back to the
	// room, which is how the sender's optimistic entry gets confirmed.
	SendMessage func(ctx context.Context, userID, conversationID, content, tempID string) error

	// MarkRead flips read flags when a client reports having read a
	// conversation.
	MarkRead func(ctx context.Context, userID, conversationID string) error

	// enrichers complete partial insert rows per table before they reach
	// room state (point lookups for sender name/avatar).
	enrichers map[string]realtime.Enrich

	// roomHistory bounds how many rows a room retains for join snapshots.
	roomHistory int
}

func NewManager() *Manager {
	return &Manager{
		clients:     make(map[string]*Client),
		rooms:       make(map[string]*room),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		enrichers:   make(map[string]realtime.Enrich),
		roomHistory: 50,
	}
}

// SetEnricher registers the point-lookup used to complete partial
// insert rows of the given table.
func (m *Manager) SetEnricher(table string, enrich realtime.Enrich) {
	m.enrichers[table] = enrich
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				logger.Info("websocket: client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.removeClient(client)
				logger.Info("websocket: client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// removeClient drops the connection and releases every room it joined,
// tearing down rooms left without members.
func (m *Manager) removeClient(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if current, ok := m.clients[client.UserID]; ok && current == client {
		delete(m.clients, client.UserID)
	}
	client.closeSend()

	for name := range client.rooms {
		m.leaveRoomLocked(client, name)
	}
}

// SendToUser sends a payload to a specific user's connection, if any.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	if !client.trySend(message) {
		logger.Warn("websocket: dropping message for slow client %s", userID)
	}
}

// JoinRoom subscribes the client to a room, creating it (and its binder
// goroutine) on first join, and sends the client the room's current
// reconciled snapshot.
func (m *Manager) JoinRoom(client *Client, name string) {
	m.mutex.Lock()

	r, ok := m.rooms[name]
	if !ok {
		r = m.startRoomLocked(name)
	}
	r.members[client] = true
	client.rooms[name] = true
	snapshot := r.state.Snapshot()

	m.mutex.Unlock()

	payload, err := json.Marshal(WSMessage{
		Type: MessageTypeRoomHistory,
		Room: name,
		Data: snapshot,
	})
	if err != nil {
		logger.Error("websocket: failed to marshal room history for %s: %v", name, err)
		return
	}
	client.trySend(payload)
}

// LeaveRoom unsubscribes the client; the last member out stops the
// room's binder so no channel leaks across navigations.
func (m *Manager) LeaveRoom(client *Client, name string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.leaveRoomLocked(client, name)
}

func (m *Manager) leaveRoomLocked(client *Client, name string) {
	r, ok := m.rooms[name]
	if !ok {
		return
	}
	delete(r.members, client)
	delete(client.rooms, name)

	if len(r.members) == 0 {
		r.cancel()
		delete(m.rooms, name)
		logger.Debug("websocket: room %s torn down", name)
	}
}

// startRoomLocked assumes the manager mutex is held.
func (m *Manager) startRoomLocked(name string) *room {
	ctx, cancel := context.WithCancel(context.Background())

	r := &room{
		name:    name,
		members: make(map[*Client]bool),
		events:  make(chan realtime.ChangeEvent, 64),
		state:   realtime.NewListState(m.roomHistory),
		cancel:  cancel,
	}
	m.rooms[name] = r

	binder := &realtime.Binder{
		State:  r.state,
		Enrich: m.enrichFor(name),
		OnApplied: func(ev realtime.ChangeEvent) {
			m.broadcastChange(r, ev)
		},
	}
	go binder.Run(ctx, r.events)

	return r
}

// enrichFor resolves the table enricher lazily so the binder enriches
// according to the event's table, not the room's.
func (m *Manager) enrichFor(roomName string) realtime.Enrich {
	return func(ctx context.Context, item realtime.Item) (realtime.Item, error) {
		type tabled interface{ TableName() string }
		t, ok := item.(tabled)
		if !ok {
			return item, nil
		}
		enrich, ok := m.enrichers[t.TableName()]
		if !ok {
			return item, nil
		}
		return enrich(ctx, item)
	}
}

// Publish pushes a change event into a room. A room with no subscribers
// does not exist, so the event is simply dropped — clients resync from
// the repository snapshot when they next join.
func (m *Manager) Publish(name string, ev realtime.ChangeEvent) {
	m.mutex.RLock()
	r, ok := m.rooms[name]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	select {
	case r.events <- ev:
	default:
		logger.Warn("websocket: room %s event buffer full, dropping %s", name, ev.Type)
	}
}

// ReplaceRoom swaps a room's entire reconciled list and broadcasts the
// new ordering — the refetch-and-resort path for aggregate-ordered
// lists such as threads.
func (m *Manager) ReplaceRoom(name string, items []realtime.Item) {
	m.mutex.RLock()
	r, ok := m.rooms[name]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	r.state.Replace(items)

	payload, err := json.Marshal(WSMessage{
		Type: MessageTypeListReplace,
		Room: name,
		Data: items,
	})
	if err != nil {
		logger.Error("websocket: failed to marshal list replace for %s: %v", name, err)
		return
	}
	m.broadcastToRoom(r, payload)
}

func (m *Manager) broadcastChange(r *room, ev realtime.ChangeEvent) {
	payload, err := json.Marshal(WSMessage{
		Type: MessageTypeChange,
		Room: r.name,
		Data: ev,
	})
	if err != nil {
		logger.Error("websocket: failed to marshal change event for %s: %v", r.name, err)
		return
	}
	m.broadcastToRoom(r, payload)
}

func (m *Manager) broadcastToRoom(r *room, payload []byte) {
	m.mutex.RLock()
	members := make([]*Client, 0, len(r.members))
	for client := range r.members {
		members = append(members, client)
	}
	m.mutex.RUnlock()

	for _, client := range members {
		if !client.trySend(payload) {
			logger.Warn("websocket: dropping room payload for slow client %s", client.UserID)
		}
	}
}

// RoomSnapshot exposes a room's reconciled list, mainly for tests and
// the join handshake.
func (m *Manager) RoomSnapshot(name string) []realtime.Item {
	m.mutex.RLock()
	r, ok := m.rooms[name]
	m.mutex.RUnlock()

	if !ok {
		return nil
	}
	return r.state.Snapshot()
}

// ReadPump reads client messages until the connection drops.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("websocket: read error for %s: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump drains the send channel to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Error("websocket: write error for %s: %v", c.UserID, err)
			return
		}
	}
}
