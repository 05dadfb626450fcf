package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/internal/infrastructure/ratelimit"
	"pratorinaldo/internal/infrastructure/realtime"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/logger"
)

type ConversationUseCase struct {
	conversationRepo repository.ConversationRepository
	marketplaceRepo  repository.MarketplaceRepository
	userRepo         repository.UserRepository
	rt               Realtime
	rateLimiter      *ratelimit.RateLimiter
	conversationRoom func(conversationID string) string
}

func NewConversationUseCase(
	conversationRepo repository.ConversationRepository,
	marketplaceRepo repository.MarketplaceRepository,
	userRepo repository.UserRepository,
	rt Realtime,
	conversationRoom func(conversationID string) string,
) *ConversationUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ConversationUseCase{
		conversationRepo: conversationRepo,
		marketplaceRepo:  marketplaceRepo,
		userRepo:         userRepo,
		rt:               rt,
		rateLimiter:      rateLimiter,
		conversationRoom: conversationRoom,
	}
}

type StartConversationInput struct {
	MarketplaceItemID string `json:"marketplace_item_id" validate:"required"`
	InitialMessage    string `json:"initial_message" validate:"omitempty,max=2000"`
}

type ConversationResponse struct {
	*entity.Conversation
	Item      *entity.MarketplaceItem `json:"item,omitempty"`
	OtherUser *entity.User            `json:"other_user,omitempty"`
}

// StartConversation opens (or returns) the buyer's thread on a listing.
// One conversation exists per (item, buyer); starting twice lands on
// the same thread.
func (uc *ConversationUseCase) StartConversation(ctx context.Context, buyerID string, input StartConversationInput) (*ConversationResponse, error) {
	item, err := uc.marketplaceRepo.GetByID(ctx, input.MarketplaceItemID)
	if err != nil {
		return nil, err
	}

	if item.SellerID == buyerID {
		return nil, errors.BadRequest("You cannot message yourself about your own listing", nil)
	}
	if item.Status != entity.ItemApproved && item.Status != entity.ItemSold {
		return nil, errors.NotFound("Marketplace item", nil)
	}

	conversation, err := uc.conversationRepo.GetByItemAndBuyer(ctx, item.ID, buyerID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}

		now := time.Now()
		conversation = &entity.Conversation{
			ID:                uuid.New().String(),
			TenantID:          item.TenantID,
			MarketplaceItemID: item.ID,
			BuyerID:           buyerID,
			SellerID:          item.SellerID,
			Status:            entity.ConversationActive,
			LastMessageAt:     now,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := uc.conversationRepo.Create(ctx, conversation); err != nil {
			return nil, err
		}
	}

	if input.InitialMessage != "" {
		if _, err := uc.SendMessage(ctx, buyerID, SendMessageInput{
			ConversationID: conversation.ID,
			Content:        input.InitialMessage,
		}); err != nil {
			return nil, err
		}
		conversation, err = uc.conversationRepo.GetByID(ctx, conversation.ID)
		if err != nil {
			return nil, err
		}
	}

	seller, err := uc.userRepo.GetByID(ctx, item.SellerID)
	if err != nil {
		logger.Warn("StartConversation: failed to load seller %s: %v", item.SellerID, err)
	}

	return &ConversationResponse{
		Conversation: conversation,
		Item:         item,
		OtherUser:    seller,
	}, nil
}

type SendMessageInput struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	Content        string `json:"content" validate:"required,max=2000"`
	TempID         string `json:"temp_id"`
}

type MessageResponse struct {
	*entity.Message
	Sender *entity.User `json:"sender,omitempty"`
}

// SendMessage persists the message and publishes the confirmed insert
// event. The event carries the sender's temp id, so the sender's
// optimistic entry is confirmed in place while everyone else appends.
func (uc *ConversationUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*MessageResponse, error) {
	allowed, waitTime := uc.rateLimiter.Allow(senderID, "send_message")
	if !allowed {
		return nil, errors.TooManyRequests("You are sending messages too quickly", waitTime.String())
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.BadRequest("Message content cannot be empty", nil)
	}
	if len([]rune(content)) > entity.MaxMessageLength {
		return nil, errors.BadRequest("Message exceeds the maximum length", nil)
	}

	message := &entity.Message{
		ID:             uuid.New().String(),
		ConversationID: input.ConversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now(),
	}

	// Participant, closed-state and counter updates are enforced inside
	// the repository transaction.
	conversation, err := uc.conversationRepo.AppendMessage(ctx, message)
	if err != nil {
		return nil, err
	}

	uc.rt.Publish(uc.conversationRoom(conversation.ID), realtime.ChangeEvent{
		Type:   realtime.EventInsert,
		Table:  "messages",
		TempID: input.TempID,
		Item:   message,
	})

	uc.notifyRecipient(conversation, message)

	return &MessageResponse{Message: message}, nil
}

// notifyRecipient pings the other participant's own socket so their
// conversation list badge updates even with the thread room closed.
func (uc *ConversationUseCase) notifyRecipient(conversation *entity.Conversation, message *entity.Message) {
	recipient := conversation.OtherParticipant(message.SenderID)

	payload, err := json.Marshal(map[string]interface{}{
		"type":            "conversation_activity",
		"conversation_id": conversation.ID,
		"preview":         conversation.LastMessagePreview,
		"unread_count":    conversation.UnreadCountFor(recipient),
		"timestamp":       message.CreatedAt.Unix(),
	})
	if err != nil {
		logger.Error("SendMessage: failed to marshal activity payload: %v", err)
		return
	}

	uc.rt.SendToUser(recipient, payload)
}

func (uc *ConversationUseCase) ListConversations(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	return uc.conversationRepo.ListByUserID(ctx, userID, limit, offset)
}

func (uc *ConversationUseCase) GetConversation(ctx context.Context, userID, conversationID string) (*ConversationResponse, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.IsParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	item, err := uc.marketplaceRepo.GetByID(ctx, conversation.MarketplaceItemID)
	if err != nil {
		logger.Warn("GetConversation: failed to load item %s: %v", conversation.MarketplaceItemID, err)
		item = nil
	}

	other, err := uc.userRepo.GetByID(ctx, conversation.OtherParticipant(userID))
	if err != nil {
		other = nil
	}

	return &ConversationResponse{
		Conversation: conversation,
		Item:         item,
		OtherUser:    other,
	}, nil
}

func (uc *ConversationUseCase) ListMessages(ctx context.Context, userID, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if !conversation.IsParticipant(userID) {
		return nil, 0, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	return uc.conversationRepo.ListMessages(ctx, conversationID, limit, offset)
}

func (uc *ConversationUseCase) MarkRead(ctx context.Context, userID, conversationID string) error {
	return uc.conversationRepo.MarkRead(ctx, conversationID, userID)
}

// SetStatus closes or reopens a conversation. Only the seller controls
// the status; a closed thread rejects new messages until reopened.
func (uc *ConversationUseCase) SetStatus(ctx context.Context, userID, conversationID, conversationStatus string) (*entity.Conversation, error) {
	if conversationStatus != entity.ConversationActive && conversationStatus != entity.ConversationClosed {
		return nil, errors.BadRequest("Status must be active or closed", nil)
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.SellerID != userID {
		return nil, errors.Forbidden("Only the seller can change the conversation status", nil)
	}

	if err := uc.conversationRepo.UpdateStatus(ctx, conversationID, conversationStatus); err != nil {
		return nil, err
	}

	conversation.Status = conversationStatus
	return conversation, nil
}

// AuthorizeRoom gates realtime room membership to participants.
func (uc *ConversationUseCase) AuthorizeRoom(ctx context.Context, userID, conversationID string) error {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.IsParticipant(userID) {
		return errors.Forbidden("You are not a participant of this conversation", nil)
	}
	return nil
}

// EnrichMessage is the binder's point lookup for partial message rows:
// it attaches the sender profile before the row reaches room state.
func (uc *ConversationUseCase) EnrichMessage(ctx context.Context, item realtime.Item) (realtime.Item, error) {
	message, ok := item.(*entity.Message)
	if !ok {
		return item, nil
	}

	sender, err := uc.userRepo.GetByID(ctx, message.SenderID)
	if err != nil {
		return nil, err
	}

	return &enrichedMessage{Message: message, Sender: sender}, nil
}

type enrichedMessage struct {
	*entity.Message
	Sender *entity.User `json:"sender"`
}
