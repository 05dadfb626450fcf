package repository

import (
	"context"

	"pratorinaldo/internal/domain/entity"
)

type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	GetBySlug(ctx context.Context, tenantID, slug string) (*entity.Article, error)
	Update(ctx context.Context, article *entity.Article) error
	ListPublished(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Article, int64, error)
}
