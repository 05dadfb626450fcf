package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/logger"
)

type ModerationUseCase struct {
	moderationRepo   repository.ModerationRepository
	marketplaceRepo  repository.MarketplaceRepository
	profileRepo      repository.ServiceProfileRepository
	articleRepo      repository.ArticleRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

func NewModerationUseCase(
	moderationRepo repository.ModerationRepository,
	marketplaceRepo repository.MarketplaceRepository,
	profileRepo repository.ServiceProfileRepository,
	articleRepo repository.ArticleRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) *ModerationUseCase {
	return &ModerationUseCase{
		moderationRepo:   moderationRepo,
		marketplaceRepo:  marketplaceRepo,
		profileRepo:      profileRepo,
		articleRepo:      articleRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

func (uc *ModerationUseCase) requireModerator(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsModerator() {
		return nil, errors.Forbidden("Moderator access required", nil)
	}
	return user, nil
}

func (uc *ModerationUseCase) ListQueue(ctx context.Context, moderatorID, tenantID string, filter repository.ModerationFilter, limit, offset int) ([]*entity.ModerationItem, int64, error) {
	if _, err := uc.requireModerator(ctx, moderatorID); err != nil {
		return nil, 0, err
	}

	return uc.moderationRepo.List(ctx, tenantID, filter, limit, offset)
}

func (uc *ModerationUseCase) GetItem(ctx context.Context, moderatorID, queueItemID string) (*entity.ModerationItem, error) {
	if _, err := uc.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}

	return uc.moderationRepo.GetByID(ctx, queueItemID)
}

func (uc *ModerationUseCase) ListAssigned(ctx context.Context, moderatorID string) ([]*entity.ModerationItem, error) {
	if _, err := uc.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}

	return uc.moderationRepo.ListByAssignee(ctx, moderatorID)
}

func (uc *ModerationUseCase) Assign(ctx context.Context, moderatorID, queueItemID string) error {
	if _, err := uc.requireModerator(ctx, moderatorID); err != nil {
		return err
	}

	item, err := uc.moderationRepo.GetByID(ctx, queueItemID)
	if err != nil {
		return err
	}
	if item.Status != entity.ModerationPending {
		return errors.Conflict("Moderation item has already been decided")
	}

	return uc.moderationRepo.Assign(ctx, queueItemID, moderatorID)
}

type DecideInput struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Note     string `json:"note" validate:"required_if=Decision rejected,max=1000"`
}

// Decide approves or rejects a queue item. The queue row and the
// target content row commit in one repository transaction; the audit
// log entry and the submitter's notification follow after commit.
func (uc *ModerationUseCase) Decide(ctx context.Context, moderatorID, queueItemID string, input DecideInput) (*entity.ModerationItem, error) {
	if _, err := uc.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}
	if input.Decision != entity.ModerationApproved && input.Decision != entity.ModerationRejected {
		return nil, errors.BadRequest("Decision must be approved or rejected", nil)
	}
	// A rejection without an explanation leaves the submitter with an
	// empty notification; refuse it.
	if input.Decision == entity.ModerationRejected && strings.TrimSpace(input.Note) == "" {
		return nil, errors.BadRequest("A note is required when rejecting", nil)
	}

	decided, err := uc.moderationRepo.Decide(ctx, queueItemID, input.Decision, moderatorID, input.Note)
	if err != nil {
		return nil, err
	}

	action := &entity.ModerationAction{
		ID:          uuid.New().String(),
		QueueItemID: decided.ID,
		TenantID:    decided.TenantID,
		ItemType:    decided.ItemType,
		ItemID:      decided.ItemID,
		PerformedBy: moderatorID,
		Action:      input.Decision,
		Note:        input.Note,
		CreatedAt:   time.Now(),
	}
	if err := uc.moderationRepo.AppendAction(ctx, action); err != nil {
		logger.Error("Decide: failed to append audit log for %s: %v", decided.ID, err)
	}

	uc.notifySubmitter(ctx, decided)

	if err := uc.notificationRepo.MarkActionCompletedByRelated(ctx, decided.ItemID); err != nil {
		logger.Error("Decide: failed to complete pending notifications for %s: %v", decided.ItemID, err)
	}

	return decided, nil
}

// notifySubmitter tells the content owner what happened to their
// submission.
func (uc *ModerationUseCase) notifySubmitter(ctx context.Context, decided *entity.ModerationItem) {
	ownerID := uc.contentOwner(ctx, decided)
	if ownerID == "" {
		return
	}

	title := "Your submission was approved"
	if decided.Status == entity.ModerationRejected {
		title = "Your submission was rejected"
	}

	notification := &entity.Notification{
		ID:          uuid.New().String(),
		TenantID:    decided.TenantID,
		UserID:      ownerID,
		Type:        entity.NotificationSystem,
		Title:       title,
		Message:     decided.Note,
		RelatedType: decided.ItemType,
		RelatedID:   decided.ItemID,
		Status:      entity.NotificationUnread,
		CreatedAt:   time.Now(),
	}
	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		logger.Error("Decide: failed to notify owner %s: %v", ownerID, err)
	}
}

func (uc *ModerationUseCase) contentOwner(ctx context.Context, item *entity.ModerationItem) string {
	switch item.ItemType {
	case entity.ModerationTypeMarketplace:
		if listing, err := uc.marketplaceRepo.GetByID(ctx, item.ItemID); err == nil {
			return listing.SellerID
		}
	case entity.ModerationTypeServiceProfile:
		if profile, err := uc.profileRepo.GetByID(ctx, item.ItemID); err == nil {
			return profile.UserID
		}
	case entity.ModerationTypeArticle:
		if article, err := uc.articleRepo.GetByID(ctx, item.ItemID); err == nil {
			return article.AuthorID
		}
	}
	return ""
}

// Report opens a queue entry for content a resident flagged.
func (uc *ModerationUseCase) Report(ctx context.Context, reporterID, itemType, itemID, reason string) (*entity.ModerationItem, error) {
	if !entity.ValidModerationType(itemType) {
		return nil, errors.BadRequest("Unknown content type", nil)
	}

	reporter, err := uc.userRepo.GetByID(ctx, reporterID)
	if err != nil {
		return nil, err
	}

	item := &entity.ModerationItem{
		ID:         uuid.New().String(),
		TenantID:   reporter.TenantID,
		ItemType:   itemType,
		ItemID:     itemID,
		ReporterID: reporterID,
		Reason:     reason,
		Status:     entity.ModerationPending,
		CreatedAt:  time.Now(),
	}

	if err := uc.moderationRepo.Enqueue(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}
