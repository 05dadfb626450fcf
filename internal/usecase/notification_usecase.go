package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/logger"
)

// Terminal notifications older than this are eligible for cleanup.
const notificationRetention = 30 * 24 * time.Hour

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

type CreateNotificationInput struct {
	UserID         string `json:"user_id" validate:"required"`
	Title          string `json:"title" validate:"required,min=2,max=200"`
	Message        string `json:"message" validate:"omitempty,max=2000"`
	ActionURL      string `json:"action_url" validate:"omitempty,url"`
	RequiresAction bool   `json:"requires_action"`
}

// Create lets an admin send an announcement to a resident. The
// repository decorator pushes it to the recipient's channel as well.
func (uc *NotificationUseCase) Create(ctx context.Context, adminID string, input CreateNotificationInput) (*entity.Notification, error) {
	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("Only admins can send announcements", nil)
	}

	recipient, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	status := entity.NotificationUnread
	if input.RequiresAction {
		status = entity.NotificationActionPending
	}

	notification := &entity.Notification{
		ID:             uuid.New().String(),
		TenantID:       recipient.TenantID,
		UserID:         recipient.ID,
		Type:           entity.NotificationAnnouncement,
		Title:          input.Title,
		Message:        input.Message,
		ActionURL:      input.ActionURL,
		Status:         status,
		RequiresAction: input.RequiresAction,
		CreatedAt:      time.Now(),
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	return notification, nil
}

// MarkActionCompleted closes an action-pending notification once its
// owner performed the requested action.
func (uc *NotificationUseCase) MarkActionCompleted(ctx context.Context, userID, notificationID string) error {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return errors.Forbidden("This notification belongs to another user", nil)
	}
	if notification.Status != entity.NotificationActionPending {
		return errors.Conflict("This notification has no pending action")
	}

	return uc.notificationRepo.MarkActionCompleted(ctx, notificationID)
}

type NotificationListResponse struct {
	Notifications []*entity.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, limit int) (*NotificationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	notifications, err := uc.notificationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	unread, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) error {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return errors.Forbidden("This notification belongs to another user", nil)
	}

	// Action-pending notifications stay open until the action resolves
	// them; reading is not completing.
	if notification.Status == entity.NotificationActionPending {
		return errors.Conflict("This notification requires an action to complete")
	}

	return uc.notificationRepo.MarkRead(ctx, notificationID)
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}

// Cleanup deletes terminal notifications past retention. Meant to run
// periodically from the server's background loop.
func (uc *NotificationUseCase) Cleanup(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-notificationRetention)
	deleted, err := uc.notificationRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return deleted, err
	}
	if deleted > 0 {
		logger.Info("Notification cleanup removed %d entries", deleted)
	}
	return deleted, nil
}

// StartCleanupRoutine runs Cleanup daily until the context is done.
func (uc *NotificationUseCase) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := uc.Cleanup(ctx); err != nil {
					logger.Error("Notification cleanup failed: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
