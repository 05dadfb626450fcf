package repository

import (
	"context"

	"pratorinaldo/internal/domain/entity"
)

type ServiceProfileFilter struct {
	Category    string
	ProfileType string
}

type ServiceProfileRepository interface {
	Create(ctx context.Context, profile *entity.ServiceProfile) error
	GetByID(ctx context.Context, id string) (*entity.ServiceProfile, error)
	GetByUser(ctx context.Context, userID string) (*entity.ServiceProfile, error)
	Update(ctx context.Context, profile *entity.ServiceProfile) error
	ListApproved(ctx context.Context, tenantID string, filter ServiceProfileFilter, limit, offset int) ([]*entity.ServiceProfile, int64, error)
	Delete(ctx context.Context, id string) error
}
