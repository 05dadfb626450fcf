package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/internal/infrastructure/realtime"
	"pratorinaldo/pkg/errors"
)

type EventUseCase struct {
	eventRepo  repository.EventRepository
	userRepo   repository.UserRepository
	rt         Realtime
	eventsRoom func(tenantID string) string
}

func NewEventUseCase(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	rt Realtime,
	eventsRoom func(tenantID string) string,
) *EventUseCase {
	return &EventUseCase{
		eventRepo:  eventRepo,
		userRepo:   userRepo,
		rt:         rt,
		eventsRoom: eventsRoom,
	}
}

type CreateEventInput struct {
	Title        string    `json:"title" validate:"required,min=3,max=200"`
	Description  string    `json:"description" validate:"omitempty,max=5000"`
	Location     string    `json:"location" validate:"omitempty,max=200"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"omitempty"`
	IsPrivate    bool      `json:"is_private"`
	MaxAttendees int       `json:"max_attendees" validate:"omitempty,min=0"`
}

// CreateEvent drafts an event. Only verified residents organize; the
// event becomes visible once published.
func (uc *EventUseCase) CreateEvent(ctx context.Context, organizerID string, input CreateEventInput) (*entity.Event, error) {
	organizer, err := uc.userRepo.GetByID(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	if !organizer.IsVerified() {
		return nil, errors.Forbidden("Only verified residents can organize events", nil)
	}

	if !input.EndDate.IsZero() && input.EndDate.Before(input.StartDate) {
		return nil, errors.BadRequest("End date cannot precede start date", nil)
	}

	now := time.Now()
	event := &entity.Event{
		ID:           uuid.New().String(),
		TenantID:     organizer.TenantID,
		OrganizerID:  organizerID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Location:     input.Location,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		IsPrivate:    input.IsPrivate,
		MaxAttendees: input.MaxAttendees,
		Status:       entity.EventDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

type UpdateEventInput struct {
	Title        string     `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=5000"`
	Location     *string    `json:"location" validate:"omitempty,max=200"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	MaxAttendees *int       `json:"max_attendees" validate:"omitempty,min=0"`
}

// UpdateEvent edits event details. Only the organizer or an admin, and
// never on a terminal event.
func (uc *EventUseCase) UpdateEvent(ctx context.Context, userID, eventID string, input UpdateEventInput) (*entity.Event, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != userID && !user.IsAdmin() {
		return nil, errors.Forbidden("Only the organizer or an admin can change this event", nil)
	}
	if event.Status == entity.EventCancelled || event.Status == entity.EventCompleted {
		return nil, errors.Closed("EVENT_CLOSED", "This event can no longer be edited")
	}

	if input.Title != "" {
		event.Title = strings.TrimSpace(input.Title)
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.StartDate != nil {
		event.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		event.EndDate = *input.EndDate
	}
	if input.MaxAttendees != nil {
		event.MaxAttendees = *input.MaxAttendees
	}
	if !event.EndDate.IsZero() && event.EndDate.Before(event.StartDate) {
		return nil, errors.BadRequest("End date cannot precede start date", nil)
	}

	if err := uc.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	uc.rt.Publish(uc.eventsRoom(event.TenantID), realtime.ChangeEvent{
		Type:  realtime.EventUpdate,
		Table: "events",
		Item:  event,
	})

	return event, nil
}

// SetStatus publishes, cancels or completes an event. The organizer and
// admins can transition it; cancelling is terminal for RSVPs.
func (uc *EventUseCase) SetStatus(ctx context.Context, userID, eventID, eventStatus string) (*entity.Event, error) {
	switch eventStatus {
	case entity.EventPublished, entity.EventCancelled, entity.EventCompleted:
	default:
		return nil, errors.BadRequest("Unknown event status", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != userID && !user.IsAdmin() {
		return nil, errors.Forbidden("Only the organizer or an admin can change this event", nil)
	}
	// Cancelled and completed are terminal; no revival.
	if event.Status == entity.EventCancelled || event.Status == entity.EventCompleted {
		return nil, errors.Closed("EVENT_CLOSED", "This event can no longer be edited")
	}

	event.Status = eventStatus
	if err := uc.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	uc.rt.Publish(uc.eventsRoom(event.TenantID), realtime.ChangeEvent{
		Type:  realtime.EventUpdate,
		Table: "events",
		Item:  event,
	})

	return event, nil
}

func (uc *EventUseCase) GetEvent(ctx context.Context, id string) (*entity.Event, error) {
	event, err := uc.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.DeletedAt.IsZero() {
		return nil, errors.NotFound("Event", nil)
	}
	return event, nil
}

func (uc *EventUseCase) ListEvents(ctx context.Context, tenantID string, viewerVerified bool, limit, offset int) ([]*entity.Event, int64, error) {
	return uc.eventRepo.ListPublished(ctx, tenantID, viewerVerified, limit, offset)
}

func (uc *EventUseCase) DeleteEvent(ctx context.Context, userID, eventID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	event, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != userID && !user.IsAdmin() {
		return errors.Forbidden("Only the organizer or an admin can delete this event", nil)
	}

	return uc.eventRepo.SoftDelete(ctx, eventID)
}

type RSVPResponse struct {
	*entity.RSVP
	GoingCount int `json:"going_count"`
}

// RSVP upserts the caller's attendance. Capacity is enforced in the
// repository transaction; a CAPACITY_FULL rejection carries the
// caller's last confirmed status so the client can roll its optimistic
// state back without a refetch.
func (uc *EventUseCase) RSVP(ctx context.Context, userID, eventID, rsvpStatus string) (*RSVPResponse, error) {
	if !entity.ValidRSVPStatus(rsvpStatus) {
		return nil, errors.BadRequest("Status must be going, maybe or not_going", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified() {
		return nil, errors.Forbidden("Only verified residents can RSVP", nil)
	}

	event, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	rsvp := &entity.RSVP{
		EventID:  eventID,
		UserID:   userID,
		TenantID: event.TenantID,
		Status:   rsvpStatus,
	}

	prior, err := uc.eventRepo.UpsertRSVP(ctx, event, rsvp)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr.WithDetails(map[string]string{"confirmed_status": prior})
		}
		return nil, err
	}

	updated, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	uc.rt.Publish(uc.eventsRoom(event.TenantID), realtime.ChangeEvent{
		Type:  realtime.EventUpdate,
		Table: "events",
		Item:  updated,
	})

	return &RSVPResponse{RSVP: rsvp, GoingCount: updated.GoingCount}, nil
}

func (uc *EventUseCase) GetRSVP(ctx context.Context, userID, eventID string) (*entity.RSVP, error) {
	return uc.eventRepo.GetRSVP(ctx, eventID, userID)
}

type AttendeeResponse struct {
	*entity.RSVP
	User *entity.User `json:"user,omitempty"`
}

func (uc *EventUseCase) ListAttendees(ctx context.Context, eventID string) ([]*AttendeeResponse, error) {
	rsvps, err := uc.eventRepo.ListRSVPs(ctx, eventID)
	if err != nil {
		return nil, err
	}

	attendees := make([]*AttendeeResponse, 0, len(rsvps))
	for _, rsvp := range rsvps {
		attendee := &AttendeeResponse{RSVP: rsvp}
		if user, err := uc.userRepo.GetByID(ctx, rsvp.UserID); err == nil {
			attendee.User = user
		}
		attendees = append(attendees, attendee)
	}

	return attendees, nil
}
