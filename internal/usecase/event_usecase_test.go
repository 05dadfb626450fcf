package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/pkg/errors"
)

func eventsRoomName(tenantID string) string { return "events:" + tenantID }

func publishedEventFixture(id string, maxAttendees int) *entity.Event {
	return &entity.Event{
		ID:           id,
		TenantID:     "prato",
		OrganizerID:  "alice",
		Title:        "Summer street dinner",
		StartDate:    time.Now().Add(48 * time.Hour),
		MaxAttendees: maxAttendees,
		Status:       entity.EventPublished,
		CreatedAt:    time.Now(),
	}
}

func newEventFixture(t *testing.T, events ...*entity.Event) (*EventUseCase, *fakeEventRepo, *recordingRealtime) {
	t.Helper()

	users := []*entity.User{
		verifiedUser("alice", "prato"),
		verifiedUser("bob", "prato"),
		verifiedUser("carla", "prato"),
		verifiedUser("dan", "prato"),
	}
	userRepo := newFakeUserRepo(users...)
	unverified := verifiedUser("eve", "prato")
	unverified.VerificationStatus = entity.VerificationPending
	userRepo.users["eve"] = unverified

	eventRepo := newFakeEventRepo(events...)
	rt := newRecordingRealtime()
	return NewEventUseCase(eventRepo, userRepo, rt, eventsRoomName), eventRepo, rt
}

func TestRSVPTransitions(t *testing.T) {
	uc, repo, _ := newEventFixture(t, publishedEventFixture("e1", 0))
	ctx := context.Background()

	resp, err := uc.RSVP(ctx, "bob", "e1", entity.RSVPGoing)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.GoingCount)

	// going -> maybe frees the seat.
	resp, err = uc.RSVP(ctx, "bob", "e1", entity.RSVPMaybe)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.GoingCount)

	// Same status again is a no-op.
	resp, err = uc.RSVP(ctx, "bob", "e1", entity.RSVPMaybe)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.GoingCount)

	// One row per (user, event) regardless of transitions.
	rsvps, err := repo.ListRSVPs(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, rsvps, 1)
	assert.Equal(t, entity.RSVPMaybe, rsvps[0].Status)
}

func TestRSVPCapacityFullCarriesConfirmedStatus(t *testing.T) {
	uc, _, _ := newEventFixture(t, publishedEventFixture("e1", 2))
	ctx := context.Background()

	_, err := uc.RSVP(ctx, "alice", "e1", entity.RSVPGoing)
	require.NoError(t, err)
	_, err = uc.RSVP(ctx, "bob", "e1", entity.RSVPGoing)
	require.NoError(t, err)

	// Third "going" exceeds capacity.
	_, err = uc.RSVP(ctx, "carla", "e1", entity.RSVPGoing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CAPACITY_FULL"))

	// The rejection carries the caller's confirmed status (none yet),
	// the rollback target for an optimistic client.
	appErr := err.(*errors.AppError)
	details := appErr.Details.(map[string]string)
	assert.Equal(t, "", details["confirmed_status"])

	// "maybe" is always allowed on a full event.
	resp, err := uc.RSVP(ctx, "carla", "e1", entity.RSVPMaybe)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.GoingCount)

	// maybe -> going still fails while full, and now the confirmed
	// status is "maybe".
	_, err = uc.RSVP(ctx, "carla", "e1", entity.RSVPGoing)
	require.Error(t, err)
	details = err.(*errors.AppError).Details.(map[string]string)
	assert.Equal(t, entity.RSVPMaybe, details["confirmed_status"])
}

func TestRSVPSeatFreedAfterWithdrawal(t *testing.T) {
	uc, _, _ := newEventFixture(t, publishedEventFixture("e1", 1))
	ctx := context.Background()

	_, err := uc.RSVP(ctx, "alice", "e1", entity.RSVPGoing)
	require.NoError(t, err)

	_, err = uc.RSVP(ctx, "bob", "e1", entity.RSVPGoing)
	assert.True(t, errors.Is(err, "CAPACITY_FULL"))

	_, err = uc.RSVP(ctx, "alice", "e1", entity.RSVPNotGoing)
	require.NoError(t, err)

	resp, err := uc.RSVP(ctx, "bob", "e1", entity.RSVPGoing)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.GoingCount)
}

func TestRSVPClosedEvent(t *testing.T) {
	event := publishedEventFixture("e1", 0)
	uc, _, _ := newEventFixture(t, event)
	ctx := context.Background()

	event.Status = entity.EventCancelled

	_, err := uc.RSVP(ctx, "bob", "e1", entity.RSVPGoing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "EVENT_CLOSED"))
}

func TestSetStatusCannotReviveTerminalEvent(t *testing.T) {
	event := publishedEventFixture("e1", 0)
	uc, repo, _ := newEventFixture(t, event)
	ctx := context.Background()

	_, err := uc.SetStatus(ctx, "alice", "e1", entity.EventCancelled)
	require.NoError(t, err)

	_, err = uc.SetStatus(ctx, "alice", "e1", entity.EventPublished)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "EVENT_CLOSED"))

	stored, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, entity.EventCancelled, stored.Status)
}

func TestRSVPRequiresVerifiedResident(t *testing.T) {
	uc, _, _ := newEventFixture(t, publishedEventFixture("e1", 0))

	_, err := uc.RSVP(context.Background(), "eve", "e1", entity.RSVPGoing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestRSVPPublishesEventUpdate(t *testing.T) {
	uc, _, rt := newEventFixture(t, publishedEventFixture("e1", 0))

	_, err := uc.RSVP(context.Background(), "bob", "e1", entity.RSVPGoing)
	require.NoError(t, err)

	require.Len(t, rt.published, 1)
	assert.Equal(t, "events:prato", rt.published[0].room)
	published := rt.published[0].ev.Item.(*entity.Event)
	assert.Equal(t, 1, published.GoingCount)
}

func TestRSVPInvalidStatus(t *testing.T) {
	uc, _, _ := newEventFixture(t, publishedEventFixture("e1", 0))

	_, err := uc.RSVP(context.Background(), "bob", "e1", "attending")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateEventValidatesDates(t *testing.T) {
	uc, _, _ := newEventFixture(t)

	start := time.Now().Add(24 * time.Hour)
	_, err := uc.CreateEvent(context.Background(), "alice", CreateEventInput{
		Title:     "Backwards event",
		StartDate: start,
		EndDate:   start.Add(-time.Hour),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestListEventsHidesPrivateFromUnverified(t *testing.T) {
	private := publishedEventFixture("e1", 0)
	private.IsPrivate = true
	public := publishedEventFixture("e2", 0)
	uc, _, _ := newEventFixture(t, private, public)
	ctx := context.Background()

	visible, total, err := uc.ListEvents(ctx, "prato", false, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, visible, 1)
	assert.Equal(t, "e2", visible[0].ID)

	_, total, err = uc.ListEvents(ctx, "prato", true, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestCapacityNeverExceededUnderChurn(t *testing.T) {
	uc, repo, _ := newEventFixture(t, publishedEventFixture("e1", 2))
	ctx := context.Background()

	users := []string{"alice", "bob", "carla", "dan"}
	statuses := []string{entity.RSVPGoing, entity.RSVPMaybe, entity.RSVPGoing, entity.RSVPNotGoing, entity.RSVPGoing}

	for round, status := range statuses {
		for _, user := range users {
			_, err := uc.RSVP(ctx, user, "e1", status)
			if err != nil {
				require.True(t, errors.Is(err, "CAPACITY_FULL"),
					fmt.Sprintf("round %d user %s: unexpected error %v", round, user, err))
			}

			going, countErr := repo.CountGoing(ctx, "e1")
			require.NoError(t, countErr)
			assert.LessOrEqual(t, going, 2)
		}
	}
}
