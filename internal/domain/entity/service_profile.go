package entity

import "time"

const (
	ProfileTypeProfessional = "professional"
	ProfileTypeVolunteer    = "volunteer"
)

const (
	ProfilePending  = "pending"
	ProfileApproved = "approved"
	ProfileRejected = "rejected"
)

// ServiceProfile is a resident's professional or volunteer listing in
// the community directory. One profile per user; new and edited
// profiles go back through moderation before they are publicly listed.
type ServiceProfile struct {
	ID                string    `json:"id" firestore:"id"`
	TenantID          string    `json:"tenant_id" firestore:"tenantId"`
	UserID            string    `json:"user_id" firestore:"userId"`
	ProfileType       string    `json:"profile_type" firestore:"profileType"`
	Category          string    `json:"category" firestore:"category"`
	BusinessName      string    `json:"business_name" firestore:"businessName"`
	Description       string    `json:"description,omitempty" firestore:"description,omitempty"`
	Services          []string  `json:"services" firestore:"services"`
	Certifications    []string  `json:"certifications,omitempty" firestore:"certifications,omitempty"`
	ContactPhone      string    `json:"contact_phone,omitempty" firestore:"contactPhone,omitempty"`
	ContactEmail      string    `json:"contact_email,omitempty" firestore:"contactEmail,omitempty"`
	Website           string    `json:"website,omitempty" firestore:"website,omitempty"`
	Address           string    `json:"address,omitempty" firestore:"address,omitempty"`
	HourlyRate        float64   `json:"hourly_rate,omitempty" firestore:"hourlyRate,omitempty"`
	AvailabilityHours int       `json:"availability_hours,omitempty" firestore:"availabilityHours,omitempty"`
	Status            string    `json:"status" firestore:"status"`
	CreatedAt         time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt         time.Time `json:"updated_at" firestore:"updatedAt"`
}
