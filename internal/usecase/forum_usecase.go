package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/internal/infrastructure/ratelimit"
	"pratorinaldo/internal/infrastructure/realtime"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/logger"
)

// threadListWindow caps how many threads a category pushes to realtime
// subscribers on each refetch.
const threadListWindow = 50

type ForumUseCase struct {
	forumRepo    repository.ForumRepository
	userRepo     repository.UserRepository
	rt           Realtime
	rateLimiter  *ratelimit.RateLimiter
	categoryRoom func(categoryID string) string
	threadRoom   func(threadID string) string
}

func NewForumUseCase(
	forumRepo repository.ForumRepository,
	userRepo repository.UserRepository,
	rt Realtime,
	categoryRoom func(categoryID string) string,
	threadRoom func(threadID string) string,
) *ForumUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ForumUseCase{
		forumRepo:    forumRepo,
		userRepo:     userRepo,
		rt:           rt,
		rateLimiter:  rateLimiter,
		categoryRoom: categoryRoom,
		threadRoom:   threadRoom,
	}
}

func (uc *ForumUseCase) requireVerified(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified() {
		return nil, errors.Forbidden("Only verified residents can post in the forum", nil)
	}
	return user, nil
}

type ForumCategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Position    int    `json:"position" validate:"min=0"`
}

func (uc *ForumUseCase) CreateCategory(ctx context.Context, adminID string, input ForumCategoryInput) (*entity.ForumCategory, error) {
	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("Only admins can manage forum categories", nil)
	}

	category := &entity.ForumCategory{
		ID:          uuid.New().String(),
		TenantID:    admin.TenantID,
		Name:        input.Name,
		Description: input.Description,
		Position:    input.Position,
		CreatedAt:   time.Now(),
	}

	if err := uc.forumRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (uc *ForumUseCase) ListCategories(ctx context.Context, tenantID string) ([]*entity.ForumCategory, error) {
	return uc.forumRepo.ListCategories(ctx, tenantID)
}

type CreateThreadInput struct {
	CategoryID string `json:"category_id" validate:"required"`
	Title      string `json:"title" validate:"required,min=3,max=200"`
	Content    string `json:"content" validate:"required,min=1,max=10000"`
}

// CreateThread opens a thread with its first post, then pushes the
// category's re-sorted thread list to subscribers.
func (uc *ForumUseCase) CreateThread(ctx context.Context, userID string, input CreateThreadInput) (*entity.ForumThread, error) {
	user, err := uc.requireVerified(ctx, userID)
	if err != nil {
		return nil, err
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "create_thread")
	if !allowed {
		return nil, errors.TooManyRequests("You are creating threads too quickly", waitTime.String())
	}

	if _, err := uc.forumRepo.GetCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	thread := &entity.ForumThread{
		ID:           uuid.New().String(),
		TenantID:     user.TenantID,
		CategoryID:   input.CategoryID,
		AuthorID:     userID,
		Title:        strings.TrimSpace(input.Title),
		LastActivity: now,
		CreatedAt:    now,
	}

	if err := uc.forumRepo.CreateThread(ctx, thread); err != nil {
		return nil, err
	}

	post := &entity.ForumPost{
		ID:        uuid.New().String(),
		ThreadID:  thread.ID,
		AuthorID:  userID,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.forumRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	uc.pushThreadList(ctx, input.CategoryID)

	return thread, nil
}

// pushThreadList refetches the category's canonical ordering and swaps
// the room's list wholesale. Thread ordering depends on pin state and
// activity, which row-level patches cannot reproduce.
func (uc *ForumUseCase) pushThreadList(ctx context.Context, categoryID string) {
	threads, _, err := uc.forumRepo.ListThreads(ctx, categoryID, threadListWindow, 0)
	if err != nil {
		logger.Error("pushThreadList: refetch failed for category %s: %v", categoryID, err)
		return
	}

	items := make([]realtime.Item, len(threads))
	for i, thread := range threads {
		items[i] = thread
	}
	uc.rt.ReplaceRoom(uc.categoryRoom(categoryID), items)
}

func (uc *ForumUseCase) ListThreads(ctx context.Context, categoryID string, limit, offset int) ([]*entity.ForumThread, int64, error) {
	return uc.forumRepo.ListThreads(ctx, categoryID, limit, offset)
}

func (uc *ForumUseCase) GetThread(ctx context.Context, threadID string) (*entity.ForumThread, error) {
	thread, err := uc.forumRepo.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if err := uc.forumRepo.IncrementThreadViews(ctx, threadID); err != nil {
		logger.Warn("GetThread: failed to bump views for %s: %v", threadID, err)
	}

	return thread, nil
}

type CreatePostInput struct {
	Content string `json:"content" validate:"required,min=1,max=10000"`
	TempID  string `json:"temp_id"`
}

// CreatePost replies to a thread. The post row is published as an
// insert event to the thread's room (carrying the author's temp id),
// and the category's thread list is re-pushed because the reply moved
// the thread's activity ordering.
func (uc *ForumUseCase) CreatePost(ctx context.Context, userID, threadID string, input CreatePostInput) (*entity.ForumPost, error) {
	if _, err := uc.requireVerified(ctx, userID); err != nil {
		return nil, err
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "create_post")
	if !allowed {
		return nil, errors.TooManyRequests("You are replying too quickly", waitTime.String())
	}

	thread, err := uc.forumRepo.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &entity.ForumPost{
		ID:        uuid.New().String(),
		ThreadID:  threadID,
		AuthorID:  userID,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Lock check and counter bump happen inside the repository
	// transaction.
	if err := uc.forumRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	uc.rt.Publish(uc.threadRoom(threadID), realtime.ChangeEvent{
		Type:   realtime.EventInsert,
		Table:  "forum_posts",
		TempID: input.TempID,
		Item:   post,
	})

	uc.pushThreadList(ctx, thread.CategoryID)

	return post, nil
}

func (uc *ForumUseCase) ListPosts(ctx context.Context, threadID string, limit, offset int) ([]*entity.ForumPost, int64, error) {
	return uc.forumRepo.ListPosts(ctx, threadID, limit, offset)
}

type EditPostInput struct {
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

func (uc *ForumUseCase) EditPost(ctx context.Context, userID, threadID, postID string, input EditPostInput) (*entity.ForumPost, error) {
	post, err := uc.forumRepo.GetPost(ctx, threadID, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, errors.Forbidden("You can only edit your own posts", nil)
	}

	post.Content = input.Content
	if err := uc.forumRepo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}

	uc.rt.Publish(uc.threadRoom(threadID), realtime.ChangeEvent{
		Type:  realtime.EventUpdate,
		Table: "forum_posts",
		Item:  post,
	})

	return post, nil
}

func (uc *ForumUseCase) DeletePost(ctx context.Context, userID, threadID, postID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	post, err := uc.forumRepo.GetPost(ctx, threadID, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID && !user.IsModerator() {
		return errors.Forbidden("You cannot delete this post", nil)
	}

	if err := uc.forumRepo.SoftDeletePost(ctx, threadID, postID); err != nil {
		return err
	}

	uc.rt.Publish(uc.threadRoom(threadID), realtime.ChangeEvent{
		Type:  realtime.EventDelete,
		Table: "forum_posts",
		Item:  post,
	})

	return nil
}

// SetThreadFlags pins or locks a thread. Moderators only; both flags
// affect the canonical ordering, so the category list is re-pushed.
func (uc *ForumUseCase) SetThreadFlags(ctx context.Context, moderatorID, threadID string, pinned, locked *bool) (*entity.ForumThread, error) {
	moderator, err := uc.userRepo.GetByID(ctx, moderatorID)
	if err != nil {
		return nil, err
	}
	if !moderator.IsModerator() {
		return nil, errors.Forbidden("Moderator access required", nil)
	}

	thread, err := uc.forumRepo.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if pinned != nil {
		thread.Pinned = *pinned
	}
	if locked != nil {
		thread.Locked = *locked
	}

	if err := uc.forumRepo.UpdateThread(ctx, thread); err != nil {
		return nil, err
	}

	uc.pushThreadList(ctx, thread.CategoryID)

	return thread, nil
}
