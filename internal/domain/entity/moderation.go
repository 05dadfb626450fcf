package entity

import "time"

const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

// Moderatable item types. Each maps to the collection holding the
// target content row whose status field mirrors the queue decision.
const (
	ModerationTypeMarketplace    = "marketplace"
	ModerationTypeServiceProfile = "service_profile"
	ModerationTypeArticle        = "article"
)

// ModerationItem is a queue entry for user-submitted content awaiting
// review. Approve/reject is terminal; the transition writes both the
// queue row and the target row's status in one transaction.
type ModerationItem struct {
	ID          string    `json:"id" firestore:"id"`
	TenantID    string    `json:"tenant_id" firestore:"tenantId"`
	ItemType    string    `json:"item_type" firestore:"itemType"`
	ItemID      string    `json:"item_id" firestore:"itemId"`
	ReporterID  string    `json:"reporter_id,omitempty" firestore:"reporterId,omitempty"`
	Reason      string    `json:"reason,omitempty" firestore:"reason,omitempty"`
	Status      string    `json:"status" firestore:"status"`
	AssignedTo  string    `json:"assigned_to,omitempty" firestore:"assignedTo,omitempty"`
	ModeratedBy string    `json:"moderated_by,omitempty" firestore:"moderatedBy,omitempty"`
	Note        string    `json:"note,omitempty" firestore:"note,omitempty"`
	ModeratedAt time.Time `json:"moderated_at,omitempty" firestore:"moderatedAt,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}

func ValidModerationType(itemType string) bool {
	switch itemType {
	case ModerationTypeMarketplace, ModerationTypeServiceProfile, ModerationTypeArticle:
		return true
	}
	return false
}

// ModerationAction is an audit log entry appended after each decision.
type ModerationAction struct {
	ID          string    `json:"id" firestore:"id"`
	QueueItemID string    `json:"queue_item_id" firestore:"queueItemId"`
	TenantID    string    `json:"tenant_id" firestore:"tenantId"`
	ItemType    string    `json:"item_type" firestore:"itemType"`
	ItemID      string    `json:"item_id" firestore:"itemId"`
	PerformedBy string    `json:"performed_by" firestore:"performedBy"`
	Action      string    `json:"action" firestore:"action"`
	Note        string    `json:"note,omitempty" firestore:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}
