package entity

import "time"

const (
	// MaxMessageLength is the hard limit on message content.
	MaxMessageLength = 2000
	// MessagePreviewLength is how much of the content is denormalized
	// onto the conversation row.
	MessagePreviewLength = 100
)

// Message is immutable once created; only the read flag transitions,
// and only from false to true.
type Message struct {
	ID             string    `json:"id" firestore:"id"`
	ConversationID string    `json:"conversation_id" firestore:"conversationId"`
	SenderID       string    `json:"sender_id" firestore:"senderId"`
	Content        string    `json:"content" firestore:"content"`
	IsRead         bool      `json:"is_read" firestore:"isRead"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
}

func (m *Message) ItemID() string    { return m.ID }
func (m *Message) TableName() string { return "messages" }
