package repository

import (
	"context"

	"pratorinaldo/internal/domain/entity"
)

type MarketplaceRepository interface {
	Create(ctx context.Context, item *entity.MarketplaceItem) error
	GetByID(ctx context.Context, id string) (*entity.MarketplaceItem, error)
	Update(ctx context.Context, item *entity.MarketplaceItem) error
	ListApproved(ctx context.Context, tenantID string, limit, offset int) ([]*entity.MarketplaceItem, int64, error)
	ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.MarketplaceItem, int64, error)
	MarkSold(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
}
