package repository

import (
	"context"

	"pratorinaldo/internal/domain/entity"
)

type ForumRepository interface {
	CreateCategory(ctx context.Context, category *entity.ForumCategory) error
	GetCategory(ctx context.Context, id string) (*entity.ForumCategory, error)
	ListCategories(ctx context.Context, tenantID string) ([]*entity.ForumCategory, error)

	CreateThread(ctx context.Context, thread *entity.ForumThread) error
	GetThread(ctx context.Context, id string) (*entity.ForumThread, error)
	UpdateThread(ctx context.Context, thread *entity.ForumThread) error

	// ListThreads returns the category's threads pinned-first, then by
	// last activity descending — the canonical ordering pushed to
	// realtime subscribers on every change.
	ListThreads(ctx context.Context, categoryID string, limit, offset int) ([]*entity.ForumThread, int64, error)

	IncrementThreadViews(ctx context.Context, id string) error

	// CreatePost inserts the post and bumps the thread's reply count and
	// last-activity timestamp in one transaction.
	CreatePost(ctx context.Context, post *entity.ForumPost) error

	GetPost(ctx context.Context, threadID, postID string) (*entity.ForumPost, error)
	ListPosts(ctx context.Context, threadID string, limit, offset int) ([]*entity.ForumPost, int64, error)
	UpdatePost(ctx context.Context, post *entity.ForumPost) error
	SoftDeletePost(ctx context.Context, threadID, postID string) error
}
