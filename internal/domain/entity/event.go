package entity

import "time"

const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

const (
	RSVPGoing    = "going"
	RSVPMaybe    = "maybe"
	RSVPNotGoing = "not_going"
)

type Event struct {
	ID          string    `json:"id" firestore:"id"`
	TenantID    string    `json:"tenant_id" firestore:"tenantId"`
	OrganizerID string    `json:"organizer_id" firestore:"organizerId"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	Location    string    `json:"location,omitempty" firestore:"location,omitempty"`
	StartDate   time.Time `json:"start_date" firestore:"startDate"`
	EndDate     time.Time `json:"end_date,omitempty" firestore:"endDate,omitempty"`
	IsPrivate   bool      `json:"is_private" firestore:"isPrivate"`

	// MaxAttendees caps "going" RSVPs; zero means unlimited.
	MaxAttendees int `json:"max_attendees,omitempty" firestore:"maxAttendees,omitempty"`

	// GoingCount mirrors the number of "going" RSVP rows and is updated
	// in the same transaction as each RSVP transition.
	GoingCount int `json:"going_count" firestore:"goingCount"`

	Status    string    `json:"status" firestore:"status"`
	DeletedAt time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// IsOpen reports whether the event still accepts RSVP transitions.
func (e *Event) IsOpen() bool {
	return e.Status == EventPublished && e.DeletedAt.IsZero()
}

func (e *Event) ItemID() string    { return e.ID }
func (e *Event) TableName() string { return "events" }

// RSVP is a per-user, per-event attendance status. The document id is
// derived from (event, user) so at most one row can exist per pair.
type RSVP struct {
	ID        string    `json:"id" firestore:"id"`
	EventID   string    `json:"event_id" firestore:"eventId"`
	UserID    string    `json:"user_id" firestore:"userId"`
	TenantID  string    `json:"tenant_id" firestore:"tenantId"`
	Status    string    `json:"status" firestore:"status"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func ValidRSVPStatus(status string) bool {
	return status == RSVPGoing || status == RSVPMaybe || status == RSVPNotGoing
}
