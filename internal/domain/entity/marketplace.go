package entity

import "time"

const (
	ItemPending  = "pending"
	ItemApproved = "approved"
	ItemSold     = "sold"
	ItemRejected = "rejected"
)

// MarketplaceItem is a classified listing. New items start pending and
// become visible only after a moderator approves the matching queue entry.
type MarketplaceItem struct {
	ID          string    `json:"id" firestore:"id"`
	TenantID    string    `json:"tenant_id" firestore:"tenantId"`
	SellerID    string    `json:"seller_id" firestore:"sellerId"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	Price       int       `json:"price" firestore:"price"`
	Images      []string  `json:"images,omitempty" firestore:"images,omitempty"`
	Status      string    `json:"status" firestore:"status"`
	ApprovedBy  string    `json:"approved_by,omitempty" firestore:"approvedBy,omitempty"`
	ApprovedAt  time.Time `json:"approved_at,omitempty" firestore:"approvedAt,omitempty"`
	SoldAt      time.Time `json:"sold_at,omitempty" firestore:"soldAt,omitempty"`
	DeletedAt   time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
