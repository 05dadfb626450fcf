package entity

import "time"

const (
	NotificationUserRegistration = "user_registration"
	NotificationUserApproved     = "user_approved"
	NotificationUserRejected     = "user_rejected"
	NotificationProposalNew      = "proposal_new"
	NotificationProposalStatus   = "proposal_status"
	NotificationEventReminder    = "event_reminder"
	NotificationMarketplaceNew   = "marketplace_new"
	NotificationAnnouncement     = "announcement"
	NotificationSystem           = "system"
)

const (
	NotificationUnread          = "unread"
	NotificationRead            = "read"
	NotificationActionPending   = "action_pending"
	NotificationActionCompleted = "action_completed"
	NotificationArchived        = "archived"
)

type Notification struct {
	ID       string `json:"id" firestore:"id"`
	TenantID string `json:"tenant_id" firestore:"tenantId"`
	UserID   string `json:"user_id" firestore:"userId"`
	Type     string `json:"type" firestore:"type"`
	Title    string `json:"title" firestore:"title"`
	Message  string `json:"message,omitempty" firestore:"message,omitempty"`

	// Polymorphic reference to the entity the notification is about.
	RelatedType string `json:"related_type,omitempty" firestore:"relatedType,omitempty"`
	RelatedID   string `json:"related_id,omitempty" firestore:"relatedId,omitempty"`

	ActionURL      string                 `json:"action_url,omitempty" firestore:"actionURL,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty" firestore:"metadata,omitempty"`
	Status         string                 `json:"status" firestore:"status"`
	RequiresAction bool                   `json:"requires_action" firestore:"requiresAction"`

	CreatedAt         time.Time `json:"created_at" firestore:"createdAt"`
	ReadAt            time.Time `json:"read_at,omitempty" firestore:"readAt,omitempty"`
	ActionCompletedAt time.Time `json:"action_completed_at,omitempty" firestore:"actionCompletedAt,omitempty"`
}

// Terminal reports whether the notification can be garbage collected.
func (n *Notification) Terminal() bool {
	switch n.Status {
	case NotificationRead, NotificationActionCompleted, NotificationArchived:
		return true
	}
	return false
}
