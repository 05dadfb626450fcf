package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/pkg/errors"
)

func seedNotification(repo *fakeNotificationRepo, id, userID, status string, age time.Duration) *entity.Notification {
	n := &entity.Notification{
		ID:        id,
		TenantID:  "prato",
		UserID:    userID,
		Type:      entity.NotificationSystem,
		Title:     "test",
		Status:    status,
		CreatedAt: time.Now().Add(-age),
	}
	repo.notifications[id] = n
	return n
}

func TestNotificationListCountsUnread(t *testing.T) {
	repo := newFakeNotificationRepo()
	uc := NewNotificationUseCase(repo, newFakeUserRepo())

	seedNotification(repo, "n1", "anna", entity.NotificationUnread, 0)
	seedNotification(repo, "n2", "anna", entity.NotificationRead, 0)
	seedNotification(repo, "n3", "bruno", entity.NotificationUnread, 0)

	result, err := uc.List(context.Background(), "anna", 0)
	require.NoError(t, err)

	assert.Len(t, result.Notifications, 2)
	assert.Equal(t, int64(1), result.UnreadCount)
}

func TestNotificationMarkReadOwnershipEnforced(t *testing.T) {
	repo := newFakeNotificationRepo()
	uc := NewNotificationUseCase(repo, newFakeUserRepo())

	seedNotification(repo, "n1", "anna", entity.NotificationUnread, 0)

	err := uc.MarkRead(context.Background(), "bruno", "n1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	require.NoError(t, uc.MarkRead(context.Background(), "anna", "n1"))
	assert.Equal(t, entity.NotificationRead, repo.notifications["n1"].Status)
}

func TestNotificationMarkReadRejectsActionPending(t *testing.T) {
	repo := newFakeNotificationRepo()
	uc := NewNotificationUseCase(repo, newFakeUserRepo())

	// A pending verification request stays open until the admin decides;
	// reading is not completing.
	seedNotification(repo, "n1", "root", entity.NotificationActionPending, 0)

	err := uc.MarkRead(context.Background(), "root", "n1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
	assert.Equal(t, entity.NotificationActionPending, repo.notifications["n1"].Status)
}

func TestAnnouncementRequiresAdmin(t *testing.T) {
	repo := newFakeNotificationRepo()
	uc := NewNotificationUseCase(repo, newFakeUserRepo(
		verifiedUser("anna", "prato"),
		adminUser("root", "prato"),
	))
	ctx := context.Background()

	input := CreateNotificationInput{UserID: "anna", Title: "Water outage tomorrow"}

	_, err := uc.Create(ctx, "anna", input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	notification, err := uc.Create(ctx, "root", input)
	require.NoError(t, err)
	assert.Equal(t, entity.NotificationAnnouncement, notification.Type)
	assert.Equal(t, "prato", notification.TenantID)
	assert.Equal(t, entity.NotificationUnread, notification.Status)
}

func TestMarkActionCompletedOnlyForPendingActions(t *testing.T) {
	repo := newFakeNotificationRepo()
	uc := NewNotificationUseCase(repo, newFakeUserRepo())
	ctx := context.Background()

	seedNotification(repo, "pending", "root", entity.NotificationActionPending, 0)
	seedNotification(repo, "plain", "root", entity.NotificationUnread, 0)

	require.NoError(t, uc.MarkActionCompleted(ctx, "root", "pending"))
	assert.Equal(t, entity.NotificationActionCompleted, repo.notifications["pending"].Status)

	err := uc.MarkActionCompleted(ctx, "root", "plain")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestNotificationCleanupSkipsOpenEntries(t *testing.T) {
	repo := newFakeNotificationRepo()
	uc := NewNotificationUseCase(repo, newFakeUserRepo())

	old := 40 * 24 * time.Hour
	seedNotification(repo, "terminal-old", "anna", entity.NotificationRead, old)
	seedNotification(repo, "open-old", "anna", entity.NotificationUnread, old)
	seedNotification(repo, "terminal-fresh", "anna", entity.NotificationRead, time.Hour)

	deleted, err := uc.Cleanup(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, deleted)
	assert.NotContains(t, repo.notifications, "terminal-old")
	assert.Contains(t, repo.notifications, "open-old")
	assert.Contains(t, repo.notifications, "terminal-fresh")
}
