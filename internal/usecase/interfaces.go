package usecase

import (
	"context"

	"pratorinaldo/internal/infrastructure/realtime"
)

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	GenerateToken(ctx context.Context, uid string) (string, error)
	UpdateUserPassword(ctx context.Context, uid, newPassword string) error
	DeleteUser(ctx context.Context, uid string) error
}

// Realtime is the publisher side of the subscription hub. Usecases push
// confirmed change events after commit; the hub reconciles them into
// each room's list and fans them out.
type Realtime interface {
	Publish(room string, ev realtime.ChangeEvent)
	ReplaceRoom(room string, items []realtime.Item)
	SendToUser(userID string, payload []byte)
}
