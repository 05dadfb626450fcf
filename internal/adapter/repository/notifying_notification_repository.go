package repository

import (
	"context"
	"encoding/json"
	"time"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	ws "pratorinaldo/internal/infrastructure/websocket"
	"pratorinaldo/pkg/logger"
)

// notifyingNotificationRepository decorates a NotificationRepository so
// every persisted notification is also pushed over the recipient's own
// websocket channel. Push failures never fail the write: the row is the
// source of truth, the push is best effort.
type notifyingNotificationRepository struct {
	repository.NotificationRepository
	sendToUser func(userID string, payload []byte)
}

func NewNotifyingNotificationRepository(inner repository.NotificationRepository, sendToUser func(userID string, payload []byte)) repository.NotificationRepository {
	return &notifyingNotificationRepository{
		NotificationRepository: inner,
		sendToUser:             sendToUser,
	}
}

func (r *notifyingNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if err := r.NotificationRepository.Create(ctx, notification); err != nil {
		return err
	}

	payload, err := json.Marshal(ws.WSMessage{
		Type:      ws.MessageTypeNotification,
		Data:      notification,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		logger.Error("notification push: failed to marshal %s: %v", notification.ID, err)
		return nil
	}

	r.sendToUser(notification.UserID, payload)
	return nil
}
