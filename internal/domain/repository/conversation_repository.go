package repository

import (
	"context"

	"pratorinaldo/internal/domain/entity"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	GetByItemAndBuyer(ctx context.Context, itemID, buyerID string) (*entity.Conversation, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error

	// AppendMessage inserts the message and updates the conversation's
	// denormalized preview, timestamp and the recipient's unread counter
	// in a single transaction. Returns the updated conversation.
	AppendMessage(ctx context.Context, message *entity.Message) (*entity.Conversation, error)

	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error)
	GetMessageByID(ctx context.Context, conversationID, messageID string) (*entity.Message, error)

	// MarkRead flips the read flag on every message not sent by readerID
	// and resets the reader's unread counter.
	MarkRead(ctx context.Context, conversationID, readerID string) error
}
