package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/errors"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	_, err := r.client.Collection("notifications").Doc(notification.ID).Set(ctx, notification)
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	doc, err := r.client.Collection("notifications").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Notification", err)
		}
		return nil, errors.Internal("Failed to get notification", err)
	}

	var notification entity.Notification
	if err := doc.DataTo(&notification); err != nil {
		return nil, errors.Internal("Failed to parse notification data", err)
	}

	return &notification, nil
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	query := r.client.Collection("notifications").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)

	notifications := make([]*entity.Notification, 0)

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list notifications", err)
		}

		var notification entity.Notification
		if err := doc.DataTo(&notification); err != nil {
			return nil, errors.Internal("Failed to parse notification data", err)
		}
		notifications = append(notifications, &notification)
	}

	return notifications, nil
}

func (r *firestoreNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	query := r.client.Collection("notifications").
		Where("userId", "==", userID).
		Where("status", "in", []string{entity.NotificationUnread, entity.NotificationActionPending})

	iter := query.Documents(ctx)
	defer iter.Stop()

	var count int64
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, errors.Internal("Failed to count unread notifications", err)
		}
		count++
	}

	return count, nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.client.Collection("notifications").Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: entity.NotificationRead},
		{Path: "readAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Notification", err)
		}
		return errors.Internal("Failed to mark notification read", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	query := r.client.Collection("notifications").
		Where("userId", "==", userID).
		Where("status", "==", entity.NotificationUnread)

	iter := query.Documents(ctx)
	defer iter.Stop()

	batch := r.client.Batch()
	pending := 0
	now := time.Now()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to query unread notifications", err)
		}

		batch.Update(doc.Ref, []firestore.Update{
			{Path: "status", Value: entity.NotificationRead},
			{Path: "readAt", Value: now},
		})
		pending++

		// Firestore batches cap at 500 writes.
		if pending == 500 {
			if _, err := batch.Commit(ctx); err != nil {
				return errors.Internal("Failed to mark notifications read", err)
			}
			batch = r.client.Batch()
			pending = 0
		}
	}

	if pending > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return errors.Internal("Failed to mark notifications read", err)
		}
	}

	return nil
}

func (r *firestoreNotificationRepository) MarkActionCompleted(ctx context.Context, id string) error {
	_, err := r.client.Collection("notifications").Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: entity.NotificationActionCompleted},
		{Path: "actionCompletedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Notification", err)
		}
		return errors.Internal("Failed to mark action completed", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) MarkActionCompletedByRelated(ctx context.Context, relatedID string) error {
	query := r.client.Collection("notifications").
		Where("relatedId", "==", relatedID).
		Where("status", "==", entity.NotificationActionPending)

	iter := query.Documents(ctx)
	defer iter.Stop()

	now := time.Now()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to query pending notifications", err)
		}

		if _, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "status", Value: entity.NotificationActionCompleted},
			{Path: "actionCompletedAt", Value: now},
		}); err != nil {
			return errors.Internal("Failed to mark action completed", err)
		}
	}

	return nil
}

// DeleteOlderThan removes terminal notifications created before the
// cutoff. Pending and action-pending rows are never touched.
func (r *firestoreNotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := r.client.Collection("notifications").
		Where("createdAt", "<", cutoff)

	iter := query.Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, errors.Internal("Failed to query old notifications", err)
		}

		var notification entity.Notification
		if err := doc.DataTo(&notification); err != nil {
			return deleted, errors.Internal("Failed to parse notification data", err)
		}
		if !notification.Terminal() {
			continue
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, errors.Internal("Failed to delete notification", err)
		}
		deleted++
	}

	return deleted, nil
}
