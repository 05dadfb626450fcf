package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/errors"
)

type firestoreEventRepository struct {
	client *firestore.Client
}

func NewFirestoreEventRepository(client *firestore.Client) repository.EventRepository {
	return &firestoreEventRepository{
		client: client,
	}
}

// rsvpDocID derives the RSVP document id from the (event, user) pair so
// a second row for the pair cannot exist.
func rsvpDocID(eventID, userID string) string {
	return fmt.Sprintf("%s_%s", eventID, userID)
}

func (r *firestoreEventRepository) Create(ctx context.Context, event *entity.Event) error {
	_, err := r.client.Collection("events").Doc(event.ID).Set(ctx, event)
	if err != nil {
		return errors.Internal("Failed to create event", err)
	}
	return nil
}

func (r *firestoreEventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	doc, err := r.client.Collection("events").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Event", err)
		}
		return nil, errors.Internal("Failed to get event", err)
	}

	var event entity.Event
	if err := doc.DataTo(&event); err != nil {
		return nil, errors.Internal("Failed to parse event data", err)
	}

	return &event, nil
}

func (r *firestoreEventRepository) Update(ctx context.Context, event *entity.Event) error {
	event.UpdatedAt = time.Now()
	_, err := r.client.Collection("events").Doc(event.ID).Set(ctx, event)
	if err != nil {
		return errors.Internal("Failed to update event", err)
	}
	return nil
}

func (r *firestoreEventRepository) SoftDelete(ctx context.Context, id string) error {
	_, err := r.client.Collection("events").Doc(id).Update(ctx, []firestore.Update{
		{Path: "deletedAt", Value: time.Now()},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Event", err)
		}
		return errors.Internal("Failed to delete event", err)
	}
	return nil
}

func (r *firestoreEventRepository) ListPublished(ctx context.Context, tenantID string, includePrivate bool, limit, offset int) ([]*entity.Event, int64, error) {
	query := r.client.Collection("events").
		Where("tenantId", "==", tenantID).
		Where("status", "==", entity.EventPublished).
		OrderBy("startDate", firestore.Asc)

	events := make([]*entity.Event, 0)
	var total int64

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list events", err)
		}

		var event entity.Event
		if err := doc.DataTo(&event); err != nil {
			return nil, 0, errors.Internal("Failed to parse event data", err)
		}

		if !event.DeletedAt.IsZero() {
			continue
		}
		if event.IsPrivate && !includePrivate {
			continue
		}

		total++
		if total <= int64(offset) || len(events) >= limit {
			continue
		}
		events = append(events, &event)
	}

	return events, total, nil
}

// UpsertRSVP runs the RSVP state machine inside one transaction: the
// event row carries the capacity counter, so a transition into "going"
// on a full event fails atomically, and the caller gets the prior
// status back for its rollback payload.
func (r *firestoreEventRepository) UpsertRSVP(ctx context.Context, event *entity.Event, rsvp *entity.RSVP) (string, error) {
	eventRef := r.client.Collection("events").Doc(event.ID)
	rsvpRef := r.client.Collection("rsvps").Doc(rsvpDocID(event.ID, rsvp.UserID))

	var prior string

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		prior = ""

		eventDoc, err := tx.Get(eventRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Event", err)
			}
			return err
		}

		var current entity.Event
		if err := eventDoc.DataTo(&current); err != nil {
			return err
		}

		if !current.IsOpen() {
			return errors.Closed("EVENT_CLOSED", "This event no longer accepts RSVPs")
		}

		rsvpDoc, err := tx.Get(rsvpRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil {
			var existing entity.RSVP
			if err := rsvpDoc.DataTo(&existing); err != nil {
				return err
			}
			prior = existing.Status
			rsvp.CreatedAt = existing.CreatedAt
		}

		if prior == rsvp.Status {
			// No transition; nothing to write.
			return nil
		}

		enteringGoing := rsvp.Status == entity.RSVPGoing
		leavingGoing := prior == entity.RSVPGoing

		if enteringGoing && current.MaxAttendees > 0 && current.GoingCount >= current.MaxAttendees {
			return errors.CapacityFull("This event has reached its maximum attendees")
		}

		if enteringGoing {
			current.GoingCount++
		}
		if leavingGoing {
			current.GoingCount--
		}

		rsvp.ID = rsvpRef.ID
		rsvp.UpdatedAt = time.Now()
		if rsvp.CreatedAt.IsZero() {
			rsvp.CreatedAt = rsvp.UpdatedAt
		}

		if err := tx.Set(rsvpRef, rsvp); err != nil {
			return err
		}

		if enteringGoing || leavingGoing {
			return tx.Update(eventRef, []firestore.Update{
				{Path: "goingCount", Value: current.GoingCount},
				{Path: "updatedAt", Value: time.Now()},
			})
		}
		return nil
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return prior, err
		}
		return prior, errors.Internal("Failed to upsert RSVP", err)
	}

	return prior, nil
}

func (r *firestoreEventRepository) GetRSVP(ctx context.Context, eventID, userID string) (*entity.RSVP, error) {
	doc, err := r.client.Collection("rsvps").Doc(rsvpDocID(eventID, userID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("RSVP", err)
		}
		return nil, errors.Internal("Failed to get RSVP", err)
	}

	var rsvp entity.RSVP
	if err := doc.DataTo(&rsvp); err != nil {
		return nil, errors.Internal("Failed to parse RSVP data", err)
	}

	return &rsvp, nil
}

func (r *firestoreEventRepository) CountGoing(ctx context.Context, eventID string) (int, error) {
	query := r.client.Collection("rsvps").
		Where("eventId", "==", eventID).
		Where("status", "==", entity.RSVPGoing)

	iter := query.Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, errors.Internal("Failed to count attendees", err)
		}
		count++
	}

	return count, nil
}

func (r *firestoreEventRepository) ListRSVPs(ctx context.Context, eventID string) ([]*entity.RSVP, error) {
	query := r.client.Collection("rsvps").
		Where("eventId", "==", eventID).
		OrderBy("createdAt", firestore.Asc)

	rsvps := make([]*entity.RSVP, 0)

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list RSVPs", err)
		}

		var rsvp entity.RSVP
		if err := doc.DataTo(&rsvp); err != nil {
			return nil, errors.Internal("Failed to parse RSVP data", err)
		}
		rsvps = append(rsvps, &rsvp)
	}

	return rsvps, nil
}
