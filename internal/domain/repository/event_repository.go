package repository

import (
	"context"

	"pratorinaldo/internal/domain/entity"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	SoftDelete(ctx context.Context, id string) error
	ListPublished(ctx context.Context, tenantID string, includePrivate bool, limit, offset int) ([]*entity.Event, int64, error)

	// UpsertRSVP applies the one-row-per-(user,event) invariant and the
	// capacity check in a single transaction: a transition into "going"
	// fails with CAPACITY_FULL when maxAttendees is reached. The prior
	// status (empty when none) is returned alongside the error so the
	// caller can report the confirmed value.
	UpsertRSVP(ctx context.Context, event *entity.Event, rsvp *entity.RSVP) (prior string, err error)

	GetRSVP(ctx context.Context, eventID, userID string) (*entity.RSVP, error)
	CountGoing(ctx context.Context, eventID string) (int, error)
	ListRSVPs(ctx context.Context, eventID string) ([]*entity.RSVP, error)
}
