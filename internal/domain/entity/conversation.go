package entity

import "time"

const (
	ConversationActive = "active"
	ConversationClosed = "closed"
)

// Conversation is a buyer/seller thread attached to a marketplace item.
// The preview, timestamp and unread counters are denormalized here and
// maintained in the same transaction as each message insert.
type Conversation struct {
	ID                 string    `json:"id" firestore:"id"`
	TenantID           string    `json:"tenant_id" firestore:"tenantId"`
	MarketplaceItemID  string    `json:"marketplace_item_id" firestore:"marketplaceItemId"`
	BuyerID            string    `json:"buyer_id" firestore:"buyerId"`
	SellerID           string    `json:"seller_id" firestore:"sellerId"`
	Status             string    `json:"status" firestore:"status"`
	LastMessageAt      time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	LastMessagePreview string    `json:"last_message_preview" firestore:"lastMessagePreview"`
	UnreadCountBuyer   int       `json:"unread_count_buyer" firestore:"unreadCountBuyer"`
	UnreadCountSeller  int       `json:"unread_count_seller" firestore:"unreadCountSeller"`
	CreatedAt          time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt          time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (c *Conversation) IsParticipant(userID string) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

func (c *Conversation) OtherParticipant(userID string) string {
	if c.BuyerID == userID {
		return c.SellerID
	}
	return c.BuyerID
}

// UnreadCountFor returns the unread counter belonging to the given participant.
func (c *Conversation) UnreadCountFor(userID string) int {
	if c.BuyerID == userID {
		return c.UnreadCountBuyer
	}
	return c.UnreadCountSeller
}
