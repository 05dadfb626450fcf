package repository

import (
	"context"

	"pratorinaldo/internal/domain/entity"
)

type ModerationFilter struct {
	Status   string
	ItemType string
}

type ModerationRepository interface {
	Enqueue(ctx context.Context, item *entity.ModerationItem) error
	GetByID(ctx context.Context, id string) (*entity.ModerationItem, error)
	List(ctx context.Context, tenantID string, filter ModerationFilter, limit, offset int) ([]*entity.ModerationItem, int64, error)
	ListByAssignee(ctx context.Context, userID string) ([]*entity.ModerationItem, error)
	Assign(ctx context.Context, id, userID string) error

	// Decide moves a pending queue item to approved/rejected AND updates
	// the target content row's denormalized status, both inside one
	// transaction so the two writes cannot disagree.
	Decide(ctx context.Context, id, decision, moderatorID, note string) (*entity.ModerationItem, error)

	AppendAction(ctx context.Context, action *entity.ModerationAction) error
}
