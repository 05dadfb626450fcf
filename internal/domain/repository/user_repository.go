package repository

import (
	"context"

	"pratorinaldo/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error

	ListByVerificationStatus(ctx context.Context, tenantID, status string, limit, offset int) ([]*entity.User, int64, error)
	ListAdmins(ctx context.Context, tenantID string) ([]*entity.User, error)
}
