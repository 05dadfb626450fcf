package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/errors"
)

type ArticleUseCase struct {
	articleRepo    repository.ArticleRepository
	moderationRepo repository.ModerationRepository
	userRepo       repository.UserRepository
}

func NewArticleUseCase(
	articleRepo repository.ArticleRepository,
	moderationRepo repository.ModerationRepository,
	userRepo repository.UserRepository,
) *ArticleUseCase {
	return &ArticleUseCase{
		articleRepo:    articleRepo,
		moderationRepo: moderationRepo,
		userRepo:       userRepo,
	}
}

type CreateArticleInput struct {
	Title      string `json:"title" validate:"required,min=3,max=200"`
	Excerpt    string `json:"excerpt" validate:"omitempty,max=500"`
	Content    string `json:"content" validate:"required,min=1"`
	CoverImage string `json:"cover_image" validate:"omitempty,url"`
}

// slugify reduces a title to a URL-safe slug.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// CreateArticle drafts editorial content. Publication goes through the
// moderation queue, like every other user-submitted content type.
func (uc *ArticleUseCase) CreateArticle(ctx context.Context, authorID string, input CreateArticleInput) (*entity.Article, error) {
	author, err := uc.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !author.IsModerator() {
		return nil, errors.Forbidden("Only editors can write articles", nil)
	}

	now := time.Now()
	article := &entity.Article{
		ID:         uuid.New().String(),
		TenantID:   author.TenantID,
		AuthorID:   authorID,
		Title:      strings.TrimSpace(input.Title),
		Slug:       slugify(input.Title),
		Excerpt:    input.Excerpt,
		Content:    input.Content,
		CoverImage: input.CoverImage,
		Status:     entity.ArticleDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	return article, nil
}

// SubmitForReview queues a draft for publication.
func (uc *ArticleUseCase) SubmitForReview(ctx context.Context, authorID, articleID string) (*entity.ModerationItem, error) {
	article, err := uc.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != authorID {
		return nil, errors.Forbidden("You can only submit your own articles", nil)
	}
	if article.Status != entity.ArticleDraft {
		return nil, errors.Conflict("Only drafts can be submitted for review")
	}

	queueItem := &entity.ModerationItem{
		ID:        uuid.New().String(),
		TenantID:  article.TenantID,
		ItemType:  entity.ModerationTypeArticle,
		ItemID:    article.ID,
		Status:    entity.ModerationPending,
		CreatedAt: time.Now(),
	}
	if err := uc.moderationRepo.Enqueue(ctx, queueItem); err != nil {
		return nil, err
	}

	return queueItem, nil
}

func (uc *ArticleUseCase) GetBySlug(ctx context.Context, tenantID, slug string) (*entity.Article, error) {
	article, err := uc.articleRepo.GetBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	if article.Status != entity.ArticlePublished {
		return nil, errors.NotFound("Article", nil)
	}
	return article, nil
}

func (uc *ArticleUseCase) ListPublished(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Article, int64, error) {
	return uc.articleRepo.ListPublished(ctx, tenantID, limit, offset)
}
