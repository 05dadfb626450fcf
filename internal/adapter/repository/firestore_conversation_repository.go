package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/errors"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func (r *firestoreConversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	_, err := r.client.Collection("conversations").Doc(conversation.ID).Set(ctx, conversation)
	if err != nil {
		return errors.Internal("Failed to create conversation", err)
	}
	return nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("conversations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conversation entity.Conversation
	if err := doc.DataTo(&conversation); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}

	return &conversation, nil
}

func (r *firestoreConversationRepository) GetByItemAndBuyer(ctx context.Context, itemID, buyerID string) (*entity.Conversation, error) {
	query := r.client.Collection("conversations").
		Where("marketplaceItemId", "==", itemID).
		Where("buyerId", "==", buyerID).
		Limit(1)

	iter := query.Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Conversation", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query conversation", err)
	}

	var conversation entity.Conversation
	if err := doc.DataTo(&conversation); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}

	return &conversation, nil
}

func (r *firestoreConversationRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	// Firestore cannot OR across fields, so query buyer and seller
	// sides separately and merge by recency.
	buyerSide, err := r.collect(ctx, r.client.Collection("conversations").Where("buyerId", "==", userID))
	if err != nil {
		return nil, 0, err
	}
	sellerSide, err := r.collect(ctx, r.client.Collection("conversations").Where("sellerId", "==", userID))
	if err != nil {
		return nil, 0, err
	}

	merged := append(buyerSide, sellerSide...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].LastMessageAt.After(merged[j].LastMessageAt)
	})

	total := int64(len(merged))
	if offset >= len(merged) {
		return []*entity.Conversation{}, total, nil
	}
	end := offset + limit
	if end > len(merged) {
		end = len(merged)
	}

	return merged[offset:end], total, nil
}

func (r *firestoreConversationRepository) collect(ctx context.Context, query firestore.Query) ([]*entity.Conversation, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	conversations := make([]*entity.Conversation, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list conversations", err)
		}

		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			return nil, errors.Internal("Failed to parse conversation data", err)
		}
		conversations = append(conversations, &conversation)
	}

	return conversations, nil
}

func (r *firestoreConversationRepository) UpdateStatus(ctx context.Context, id, conversationStatus string) error {
	_, err := r.client.Collection("conversations").Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: conversationStatus},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Conversation", err)
		}
		return errors.Internal("Failed to update conversation status", err)
	}
	return nil
}

// AppendMessage writes the message and the conversation's denormalized
// fields in one transaction so readers never see them disagree.
func (r *firestoreConversationRepository) AppendMessage(ctx context.Context, message *entity.Message) (*entity.Conversation, error) {
	convRef := r.client.Collection("conversations").Doc(message.ConversationID)
	msgRef := convRef.Collection("messages").Doc(message.ID)

	var updated entity.Conversation

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(convRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Conversation", err)
			}
			return err
		}

		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			return err
		}

		if conversation.Status == entity.ConversationClosed {
			return errors.Closed("CONVERSATION_CLOSED", "This conversation has been closed by the seller")
		}
		if !conversation.IsParticipant(message.SenderID) {
			return errors.Forbidden("You are not a participant of this conversation", nil)
		}

		preview := message.Content
		if len([]rune(preview)) > entity.MessagePreviewLength {
			preview = string([]rune(preview)[:entity.MessagePreviewLength])
		}

		conversation.LastMessageAt = message.CreatedAt
		conversation.LastMessagePreview = preview
		conversation.UpdatedAt = message.CreatedAt
		if message.SenderID == conversation.BuyerID {
			conversation.UnreadCountSeller++
		} else {
			conversation.UnreadCountBuyer++
		}

		if err := tx.Set(msgRef, message); err != nil {
			return err
		}
		if err := tx.Set(convRef, &conversation); err != nil {
			return err
		}

		updated = conversation
		return nil
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to append message", err)
	}

	return &updated, nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("conversations").Doc(conversationID).
		Collection("messages").
		OrderBy("createdAt", firestore.Asc)

	messages := make([]*entity.Message, 0)
	var total int64

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list messages", err)
		}

		total++
		if total <= int64(offset) || len(messages) >= limit {
			continue
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, 0, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}

	return messages, total, nil
}

func (r *firestoreConversationRepository) GetMessageByID(ctx context.Context, conversationID, messageID string) (*entity.Message, error) {
	doc, err := r.client.Collection("conversations").Doc(conversationID).
		Collection("messages").Doc(messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}

	return &message, nil
}

// MarkRead flips read flags on the other participant's messages and
// zeroes the reader's unread counter in one transaction.
func (r *firestoreConversationRepository) MarkRead(ctx context.Context, conversationID, readerID string) error {
	convRef := r.client.Collection("conversations").Doc(conversationID)

	// Collect unread message refs outside the transaction; the read
	// flag only ever moves false to true, so a stale ref is harmless.
	unreadQuery := convRef.Collection("messages").
		Where("isRead", "==", false)

	iter := unreadQuery.Documents(ctx)
	defer iter.Stop()

	var unreadRefs []*firestore.DocumentRef
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to query unread messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return errors.Internal("Failed to parse message data", err)
		}
		if message.SenderID != readerID {
			unreadRefs = append(unreadRefs, doc.Ref)
		}
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(convRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Conversation", err)
			}
			return err
		}

		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			return err
		}
		if !conversation.IsParticipant(readerID) {
			return errors.Forbidden("You are not a participant of this conversation", nil)
		}

		for _, ref := range unreadRefs {
			if err := tx.Update(ref, []firestore.Update{
				{Path: "isRead", Value: true},
			}); err != nil {
				return err
			}
		}

		counterPath := "unreadCountSeller"
		if readerID == conversation.BuyerID {
			counterPath = "unreadCountBuyer"
		}
		return tx.Update(convRef, []firestore.Update{
			{Path: counterPath, Value: 0},
			{Path: "updatedAt", Value: time.Now()},
		})
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return err
		}
		return errors.Internal("Failed to mark conversation read", err)
	}

	return nil
}
