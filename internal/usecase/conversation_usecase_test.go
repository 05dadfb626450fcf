package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/infrastructure/realtime"
	"pratorinaldo/pkg/errors"
)

func conversationRoomName(conversationID string) string { return "conversation:" + conversationID }

type conversationFixture struct {
	uc            *ConversationUseCase
	conversations *fakeConversationRepo
	marketplace   *fakeMarketplaceRepo
	rt            *recordingRealtime
}

func newConversationFixture(t *testing.T) *conversationFixture {
	t.Helper()

	userRepo := newFakeUserRepo(
		verifiedUser("buyer", "prato"),
		verifiedUser("seller", "prato"),
		verifiedUser("stranger", "prato"),
	)
	marketplace := newFakeMarketplaceRepo(&entity.MarketplaceItem{
		ID:       "item1",
		TenantID: "prato",
		SellerID: "seller",
		Title:    "Garden table",
		Status:   entity.ItemApproved,
	})
	conversations := newFakeConversationRepo()
	rt := newRecordingRealtime()

	return &conversationFixture{
		uc:            NewConversationUseCase(conversations, marketplace, userRepo, rt, conversationRoomName),
		conversations: conversations,
		marketplace:   marketplace,
		rt:            rt,
	}
}

func TestStartConversationIsIdempotentPerItemAndBuyer(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	first, err := f.uc.StartConversation(ctx, "buyer", StartConversationInput{MarketplaceItemID: "item1"})
	require.NoError(t, err)

	second, err := f.uc.StartConversation(ctx, "buyer", StartConversationInput{MarketplaceItemID: "item1"})
	require.NoError(t, err)
	assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
	assert.Len(t, f.conversations.conversations, 1)
}

func TestStartConversationRejectsSelfContact(t *testing.T) {
	f := newConversationFixture(t)

	_, err := f.uc.StartConversation(context.Background(), "seller", StartConversationInput{MarketplaceItemID: "item1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSendMessagePublishesInsertWithTempID(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	started, err := f.uc.StartConversation(ctx, "buyer", StartConversationInput{MarketplaceItemID: "item1"})
	require.NoError(t, err)

	_, err = f.uc.SendMessage(ctx, "buyer", SendMessageInput{
		ConversationID: started.Conversation.ID,
		Content:        "Is the table still available?",
		TempID:         "tmp-42",
	})
	require.NoError(t, err)

	require.Len(t, f.rt.published, 1)
	published := f.rt.published[0]
	assert.Equal(t, "conversation:"+started.Conversation.ID, published.room)
	assert.Equal(t, realtime.EventInsert, published.ev.Type)
	assert.Equal(t, "tmp-42", published.ev.TempID)
	assert.Equal(t, "Is the table still available?", published.ev.Item.(*entity.Message).Content)

	// The seller's own channel gets an activity ping for the badge.
	assert.Len(t, f.rt.direct["seller"], 1)
}

func TestSendMessageUpdatesPreviewAndUnread(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	started, err := f.uc.StartConversation(ctx, "buyer", StartConversationInput{MarketplaceItemID: "item1"})
	require.NoError(t, err)

	long := strings.Repeat("a", entity.MaxMessageLength)
	_, err = f.uc.SendMessage(ctx, "buyer", SendMessageInput{
		ConversationID: started.Conversation.ID,
		Content:        long,
	})
	require.NoError(t, err)

	conversation, err := f.conversations.GetByID(ctx, started.Conversation.ID)
	require.NoError(t, err)
	assert.Len(t, []rune(conversation.LastMessagePreview), entity.MessagePreviewLength)
	assert.Equal(t, 1, conversation.UnreadCountSeller)
	assert.Equal(t, 0, conversation.UnreadCountBuyer)
}

func TestSendMessageRejectsOversizeAndEmpty(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	started, err := f.uc.StartConversation(ctx, "buyer", StartConversationInput{MarketplaceItemID: "item1"})
	require.NoError(t, err)

	_, err = f.uc.SendMessage(ctx, "buyer", SendMessageInput{
		ConversationID: started.Conversation.ID,
		Content:        strings.Repeat("b", entity.MaxMessageLength+1),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.uc.SendMessage(ctx, "buyer", SendMessageInput{
		ConversationID: started.Conversation.ID,
		Content:        "   ",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestClosedConversationRejectsMessages(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	started, err := f.uc.StartConversation(ctx, "buyer", StartConversationInput{MarketplaceItemID: "item1"})
	require.NoError(t, err)

	// Only the seller can close.
	_, err = f.uc.SetStatus(ctx, "buyer", started.Conversation.ID, entity.ConversationClosed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = f.uc.SetStatus(ctx, "seller", started.Conversation.ID, entity.ConversationClosed)
	require.NoError(t, err)

	_, err = f.uc.SendMessage(ctx, "buyer", SendMessageInput{
		ConversationID: started.Conversation.ID,
		Content:        "hello?",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONVERSATION_CLOSED"))

	// Reopening restores messaging.
	_, err = f.uc.SetStatus(ctx, "seller", started.Conversation.ID, entity.ConversationActive)
	require.NoError(t, err)

	_, err = f.uc.SendMessage(ctx, "buyer", SendMessageInput{
		ConversationID: started.Conversation.ID,
		Content:        "hello again",
	})
	require.NoError(t, err)
}

func TestMarkReadResetsCounterAndFlags(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	started, err := f.uc.StartConversation(ctx, "buyer", StartConversationInput{
		MarketplaceItemID: "item1",
		InitialMessage:    "Hi, is this still for sale?",
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.MarkRead(ctx, "seller", started.Conversation.ID))

	conversation, err := f.conversations.GetByID(ctx, started.Conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, conversation.UnreadCountSeller)

	messages, _, err := f.uc.ListMessages(ctx, "seller", started.Conversation.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].IsRead)
}

func TestListMessagesRequiresParticipant(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	started, err := f.uc.StartConversation(ctx, "buyer", StartConversationInput{MarketplaceItemID: "item1"})
	require.NoError(t, err)

	_, _, err = f.uc.ListMessages(ctx, "stranger", started.Conversation.ID, 20, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	err = f.uc.AuthorizeRoom(ctx, "stranger", started.Conversation.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestEnrichMessageAttachesSender(t *testing.T) {
	f := newConversationFixture(t)

	message := &entity.Message{
		ID:             "m1",
		ConversationID: "c1",
		SenderID:       "buyer",
		Content:        "hello",
		CreatedAt:      time.Now(),
	}

	enriched, err := f.uc.EnrichMessage(context.Background(), message)
	require.NoError(t, err)

	withSender, ok := enriched.(*enrichedMessage)
	require.True(t, ok)
	assert.Equal(t, "buyer", withSender.Sender.ID)
	assert.Equal(t, "m1", enriched.ItemID())
}
