package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/logger"
)

// Client to server message types.
const (
	MessageTypePing        = "ping"
	MessageTypeJoinRoom    = "join_room"
	MessageTypeLeaveRoom   = "leave_room"
	MessageTypeSendMessage = "send_message"
	MessageTypeTyping      = "typing"
	MessageTypeMarkRead    = "mark_read"
)

// Server to client message types.
const (
	MessageTypePong         = "pong"
	MessageTypeRoomHistory  = "room_history"
	MessageTypeChange       = "change"
	MessageTypeListReplace  = "list_replace"
	MessageTypeSendRejected = "send_rejected"
	MessageTypeError        = "error"
	MessageTypeNotification = "notification"
)

// WSMessage is the wire envelope for both directions.
type WSMessage struct {
	Type      string      `json:"type"`
	Room      string      `json:"room,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	TempID    string      `json:"temp_id,omitempty"`
	Timestamp int64       `json:"timestamp,omitempty"`
}

type sendMessagePayload struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
	TempID         string `json:"temp_id"`
}

type typingPayload struct {
	ConversationID string `json:"conversation_id"`
	IsTyping       bool   `json:"is_typing"`
}

// HandleClientMessage dispatches one inbound frame.
func (m *Manager) HandleClientMessage(client *Client, raw []byte) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Warn("websocket: malformed frame from %s: %v", client.UserID, err)
		m.sendError(client, "", "INVALID_MESSAGE", "malformed message")
		return
	}

	switch msg.Type {
	case MessageTypePing:
		m.handlePing(client)
	case MessageTypeJoinRoom:
		m.handleJoinRoom(client, msg)
	case MessageTypeLeaveRoom:
		m.handleLeaveRoom(client, msg)
	case MessageTypeSendMessage:
		m.handleSendMessage(client, msg)
	case MessageTypeTyping:
		m.handleTyping(client, msg)
	case MessageTypeMarkRead:
		m.handleMarkRead(client, msg)
	default:
		logger.Debug("websocket: unknown message type %q from %s", msg.Type, client.UserID)
	}
}

func (m *Manager) handlePing(client *Client) {
	payload, _ := json.Marshal(WSMessage{
		Type:      MessageTypePong,
		Timestamp: time.Now().Unix(),
	})
	client.trySend(payload)
}

func (m *Manager) handleJoinRoom(client *Client, msg WSMessage) {
	name := strings.TrimSpace(msg.Room)
	if name == "" {
		m.sendError(client, "", "INVALID_MESSAGE", "room is required")
		return
	}

	if m.Authorize != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Authorize(ctx, client.UserID, name); err != nil {
			logger.Warn("websocket: %s denied room %s: %v", client.UserID, name, err)
			m.sendError(client, name, "FORBIDDEN", "not allowed to join this room")
			return
		}
	}

	m.JoinRoom(client, name)
}

func (m *Manager) handleLeaveRoom(client *Client, msg WSMessage) {
	if msg.Room == "" {
		return
	}
	m.LeaveRoom(client, msg.Room)
}

// handleSendMessage persists through the conversation usecase. On
// success the usecase publishes the confirmed insert (carrying the
// temp id) back to the room, which confirms the sender's optimistic
// entry in place. On failure the sender gets a send_rejected with the
// same temp id so it can drop the optimistic entry.
func (m *Manager) handleSendMessage(client *Client, msg WSMessage) {
	if m.SendMessage == nil {
		m.sendError(client, msg.Room, "UNAVAILABLE", "messaging is not available")
		return
	}

	var payload sendMessagePayload
	if err := decodeData(msg.Data, &payload); err != nil {
		m.sendError(client, msg.Room, "INVALID_MESSAGE", "malformed send_message payload")
		return
	}
	if payload.TempID == "" {
		payload.TempID = msg.TempID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.SendMessage(ctx, client.UserID, payload.ConversationID, payload.Content, payload.TempID); err != nil {
		code := "INTERNAL_ERROR"
		message := "failed to send message"
		if appErr, ok := err.(*errors.AppError); ok {
			code = appErr.Code
			message = appErr.Message
		}

		rejected, _ := json.Marshal(WSMessage{
			Type:   MessageTypeSendRejected,
			Room:   ConversationRoom(payload.ConversationID),
			TempID: payload.TempID,
			Data: map[string]string{
				"code":    code,
				"message": message,
			},
			Timestamp: time.Now().Unix(),
		})
		client.trySend(rejected)
	}
}

// handleTyping relays a typing indicator to the conversation room
// without persisting anything. The sender is excluded.
func (m *Manager) handleTyping(client *Client, msg WSMessage) {
	var payload typingPayload
	if err := decodeData(msg.Data, &payload); err != nil {
		return
	}

	name := ConversationRoom(payload.ConversationID)

	m.mutex.RLock()
	r, ok := m.rooms[name]
	if !ok {
		m.mutex.RUnlock()
		return
	}
	members := make([]*Client, 0, len(r.members))
	for member := range r.members {
		if member != client {
			members = append(members, member)
		}
	}
	m.mutex.RUnlock()

	relay, _ := json.Marshal(WSMessage{
		Type: MessageTypeTyping,
		Room: name,
		Data: map[string]interface{}{
			"user_id":   client.UserID,
			"is_typing": payload.IsTyping,
		},
		Timestamp: time.Now().Unix(),
	})

	for _, member := range members {
		member.trySend(relay)
	}
}

func (m *Manager) handleMarkRead(client *Client, msg WSMessage) {
	if m.MarkRead == nil {
		return
	}

	var payload struct {
		ConversationID string `json:"conversation_id"`
	}
	if err := decodeData(msg.Data, &payload); err != nil || payload.ConversationID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.MarkRead(ctx, client.UserID, payload.ConversationID); err != nil {
		logger.Error("websocket: mark_read failed for %s: %v", client.UserID, err)
	}
}

func (m *Manager) sendError(client *Client, room, code, message string) {
	payload, _ := json.Marshal(WSMessage{
		Type: MessageTypeError,
		Room: room,
		Data: map[string]string{
			"code":    code,
			"message": message,
		},
		Timestamp: time.Now().Unix(),
	})
	client.trySend(payload)
}

// decodeData re-marshals the loosely typed data field into a concrete
// payload struct.
func decodeData(data interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
