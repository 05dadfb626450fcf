package repository

import (
	"context"
	"time"

	"pratorinaldo/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	MarkActionCompleted(ctx context.Context, id string) error

	// MarkActionCompletedByRelated completes every action_pending
	// notification referencing the given related entity, for flows where
	// the caller knows the entity but not the notification ids.
	MarkActionCompletedByRelated(ctx context.Context, relatedID string) error

	// DeleteOlderThan removes terminal-status notifications created
	// before the cutoff and reports how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
