package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/internal/infrastructure/ratelimit"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/logger"
)

type MarketplaceUseCase struct {
	marketplaceRepo repository.MarketplaceRepository
	moderationRepo  repository.ModerationRepository
	userRepo        repository.UserRepository
	rateLimiter     *ratelimit.RateLimiter
}

func NewMarketplaceUseCase(
	marketplaceRepo repository.MarketplaceRepository,
	moderationRepo repository.ModerationRepository,
	userRepo repository.UserRepository,
) *MarketplaceUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &MarketplaceUseCase{
		marketplaceRepo: marketplaceRepo,
		moderationRepo:  moderationRepo,
		userRepo:        userRepo,
		rateLimiter:     rateLimiter,
	}
}

type CreateItemInput struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	Price       int      `json:"price" validate:"min=0"`
	Images      []string `json:"images" validate:"omitempty,max=8,dive,url"`
}

// CreateItem lists an item for sale. The listing starts pending and a
// moderation queue entry is opened; it becomes publicly visible only
// after a moderator approves.
func (uc *MarketplaceUseCase) CreateItem(ctx context.Context, sellerID string, input CreateItemInput) (*entity.MarketplaceItem, error) {
	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !seller.IsVerified() {
		return nil, errors.Forbidden("Only verified residents can sell on the marketplace", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(sellerID, "create_item")
	if !allowed {
		return nil, errors.TooManyRequests("You are creating listings too quickly", waitTime.String())
	}

	now := time.Now()
	item := &entity.MarketplaceItem{
		ID:          uuid.New().String(),
		TenantID:    seller.TenantID,
		SellerID:    sellerID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       input.Price,
		Images:      input.Images,
		Status:      entity.ItemPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.marketplaceRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	queueItem := &entity.ModerationItem{
		ID:        uuid.New().String(),
		TenantID:  seller.TenantID,
		ItemType:  entity.ModerationTypeMarketplace,
		ItemID:    item.ID,
		Status:    entity.ModerationPending,
		CreatedAt: now,
	}
	if err := uc.moderationRepo.Enqueue(ctx, queueItem); err != nil {
		logger.Error("CreateItem: failed to enqueue item %s for moderation: %v", item.ID, err)
		return nil, err
	}

	return item, nil
}

func (uc *MarketplaceUseCase) GetItem(ctx context.Context, viewerID, itemID string) (*entity.MarketplaceItem, error) {
	item, err := uc.marketplaceRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.DeletedAt.IsZero() {
		return nil, errors.NotFound("Marketplace item", nil)
	}

	// Pending and rejected listings are only visible to their seller
	// and to moderators.
	if item.Status != entity.ItemApproved && item.Status != entity.ItemSold && item.SellerID != viewerID {
		viewer, err := uc.userRepo.GetByID(ctx, viewerID)
		if err != nil || !viewer.IsModerator() {
			return nil, errors.NotFound("Marketplace item", nil)
		}
	}

	return item, nil
}

func (uc *MarketplaceUseCase) ListItems(ctx context.Context, tenantID string, limit, offset int) ([]*entity.MarketplaceItem, int64, error) {
	return uc.marketplaceRepo.ListApproved(ctx, tenantID, limit, offset)
}

func (uc *MarketplaceUseCase) ListMyItems(ctx context.Context, sellerID string, limit, offset int) ([]*entity.MarketplaceItem, int64, error) {
	return uc.marketplaceRepo.ListBySeller(ctx, sellerID, limit, offset)
}

type UpdateItemInput struct {
	Title       string   `json:"title" validate:"omitempty,min=3,max=200"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	Price       *int     `json:"price" validate:"omitempty,min=0"`
	Images      []string `json:"images" validate:"omitempty,max=8,dive,url"`
}

// UpdateItem edits a listing. Edits to an approved listing send it back
// through moderation.
func (uc *MarketplaceUseCase) UpdateItem(ctx context.Context, sellerID, itemID string, input UpdateItemInput) (*entity.MarketplaceItem, error) {
	item, err := uc.marketplaceRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID != sellerID {
		return nil, errors.Forbidden("You can only edit your own listings", nil)
	}
	if item.Status == entity.ItemSold {
		return nil, errors.Conflict("Sold listings cannot be edited")
	}

	if input.Title != "" {
		item.Title = strings.TrimSpace(input.Title)
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Images != nil {
		item.Images = input.Images
	}

	reenqueue := item.Status == entity.ItemApproved
	if reenqueue {
		item.Status = entity.ItemPending
	}

	if err := uc.marketplaceRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	if reenqueue {
		queueItem := &entity.ModerationItem{
			ID:        uuid.New().String(),
			TenantID:  item.TenantID,
			ItemType:  entity.ModerationTypeMarketplace,
			ItemID:    item.ID,
			Status:    entity.ModerationPending,
			CreatedAt: time.Now(),
		}
		if err := uc.moderationRepo.Enqueue(ctx, queueItem); err != nil {
			logger.Error("UpdateItem: failed to re-enqueue item %s: %v", item.ID, err)
		}
	}

	return item, nil
}

func (uc *MarketplaceUseCase) MarkSold(ctx context.Context, sellerID, itemID string) (*entity.MarketplaceItem, error) {
	item, err := uc.marketplaceRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID != sellerID {
		return nil, errors.Forbidden("You can only mark your own listings as sold", nil)
	}
	if item.Status != entity.ItemApproved {
		return nil, errors.Conflict("Only approved listings can be marked sold")
	}

	if err := uc.marketplaceRepo.MarkSold(ctx, itemID); err != nil {
		return nil, err
	}

	return uc.marketplaceRepo.GetByID(ctx, itemID)
}

func (uc *MarketplaceUseCase) DeleteItem(ctx context.Context, userID, itemID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	item, err := uc.marketplaceRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.SellerID != userID && !user.IsModerator() {
		return errors.Forbidden("You cannot delete this listing", nil)
	}

	return uc.marketplaceRepo.SoftDelete(ctx, itemID)
}
