package usecase

import (
	"context"
	"fmt"
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

type ProposalUseCase struct {
	proposalRepo     repository.ProposalRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	rt               Realtime
	rateLimiter      *ratelimit.RateLimiter
	proposalsRoom    func(tenantID string) string
}

func NewProposalUseCase(
	proposalRepo repository.ProposalRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	rt Realtime,
	proposalsRoom func(tenantID string) string,
) *ProposalUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ProposalUseCase{
		proposalRepo:     proposalRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		rt:               rt,
		rateLimiter:      rateLimiter,
		proposalsRoom:    proposalsRoom,
	}
}

// requireVerified loads the user and rejects anyone whose residency has
// not been approved yet.
func (uc *ProposalUseCase) requireVerified(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified() {
		return nil, errors.Forbidden("Only verified residents can participate in the Agora", nil)
	}
	return user, nil
}

type CreateProposalInput struct {
	Title      string `json:"title" validate:"required,min=5,max=200"`
	Content    string `json:"content" validate:"required,min=20"`
	CategoryID string `json:"category_id" validate:"omitempty"`
}

func (uc *ProposalUseCase) CreateProposal(ctx context.Context, userID string, input CreateProposalInput) (*entity.Proposal, error) {
	user, err := uc.requireVerified(ctx, userID)
	if err != nil {
		return nil, err
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "create_proposal")
	if !allowed {
		return nil, errors.TooManyRequests("You are creating proposals too quickly", waitTime.String())
	}

	if input.CategoryID != "" {
		if _, err := uc.proposalRepo.GetCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	proposal := &entity.Proposal{
		ID:         uuid.New().String(),
		TenantID:   user.TenantID,
		AuthorID:   userID,
		CategoryID: input.CategoryID,
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
		Status:     entity.ProposalPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, err
	}

	uc.rt.Publish(uc.proposalsRoom(user.TenantID), realtime.ChangeEvent{
		Type:  realtime.EventInsert,
		Table: "proposals",
		Item:  proposal,
	})

	uc.notifyAdmins(ctx, user, proposal)

	return proposal, nil
}

func (uc *ProposalUseCase) notifyAdmins(ctx context.Context, author *entity.User, proposal *entity.Proposal) {
	admins, err := uc.userRepo.ListAdmins(ctx, proposal.TenantID)
	if err != nil {
		logger.Error("CreateProposal: failed to list admins: %v", err)
		return
	}

	for _, admin := range admins {
		notification := &entity.Notification{
			ID:          uuid.New().String(),
			TenantID:    proposal.TenantID,
			UserID:      admin.ID,
			Type:        entity.NotificationProposalNew,
			Title:       "New proposal in the Agora",
			Message:     fmt.Sprintf("%s proposed: %s", author.Name, proposal.Title),
			RelatedType: "proposal",
			RelatedID:   proposal.ID,
			Status:      entity.NotificationUnread,
			CreatedAt:   time.Now(),
		}
		if err := uc.notificationRepo.Create(ctx, notification); err != nil {
			logger.Error("CreateProposal: failed to notify admin %s: %v", admin.ID, err)
		}
	}
}

func (uc *ProposalUseCase) GetProposal(ctx context.Context, id string) (*entity.Proposal, error) {
	return uc.proposalRepo.GetByID(ctx, id)
}

func (uc *ProposalUseCase) ListProposals(ctx context.Context, tenantID string, filter repository.ProposalFilter, limit, offset int) ([]*entity.Proposal, int64, error) {
	return uc.proposalRepo.List(ctx, tenantID, filter, limit, offset)
}

// Vote applies the toggle: voting the current type again removes the
// vote, the other type switches it, no prior vote inserts one. The
// committed counters come back with the result and are broadcast to
// the tenant's proposal room, so optimistic counters on every client
// converge on the same numbers.
func (uc *ProposalUseCase) Vote(ctx context.Context, userID, proposalID, voteType string) (*repository.VoteResult, error) {
	if voteType != entity.VoteUp && voteType != entity.VoteDown {
		return nil, errors.BadRequest("Vote must be up or down", nil)
	}

	user, err := uc.requireVerified(ctx, userID)
	if err != nil {
		return nil, err
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "cast_vote")
	if !allowed {
		return nil, errors.TooManyRequests("You are voting too quickly", waitTime.String())
	}

	result, err := uc.proposalRepo.ApplyVote(ctx, proposalID, userID, voteType)
	if err != nil {
		// Attach the caller's confirmed vote so the client can roll its
		// optimistic counter back to a known state.
		if appErr, ok := err.(*errors.AppError); ok {
			if vote, getErr := uc.proposalRepo.GetVote(ctx, proposalID, userID); getErr == nil {
				return nil, appErr.WithDetails(map[string]string{"confirmed_vote": vote.VoteType})
			}
			return nil, appErr.WithDetails(map[string]string{"confirmed_vote": ""})
		}
		return nil, err
	}

	if proposal, getErr := uc.proposalRepo.GetByID(ctx, proposalID); getErr == nil {
		uc.rt.Publish(uc.proposalsRoom(user.TenantID), realtime.ChangeEvent{
			Type:  realtime.EventUpdate,
			Table: "proposals",
			Item:  proposal,
		})
	}

	return result, nil
}

type AddCommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

func (uc *ProposalUseCase) AddComment(ctx context.Context, userID, proposalID string, input AddCommentInput) (*entity.ProposalComment, error) {
	if _, err := uc.requireVerified(ctx, userID); err != nil {
		return nil, err
	}

	proposal, err := uc.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !proposal.IsOpen() {
		return nil, errors.Closed("PROPOSAL_CLOSED", "This proposal no longer accepts comments")
	}

	comment := &entity.ProposalComment{
		ID:         uuid.New().String(),
		ProposalID: proposalID,
		AuthorID:   userID,
		Content:    strings.TrimSpace(input.Content),
		CreatedAt:  time.Now(),
	}

	if err := uc.proposalRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (uc *ProposalUseCase) ListComments(ctx context.Context, proposalID string, limit, offset int) ([]*entity.ProposalComment, int64, error) {
	return uc.proposalRepo.ListComments(ctx, proposalID, limit, offset)
}

func (uc *ProposalUseCase) DeleteComment(ctx context.Context, userID, proposalID, commentID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	comment, err := uc.proposalRepo.GetComment(ctx, proposalID, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != userID && !user.IsModerator() {
		return errors.Forbidden("You cannot delete this comment", nil)
	}

	return uc.proposalRepo.DeleteComment(ctx, proposalID, commentID)
}

type ChangeProposalStatusInput struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"omitempty,max=1000"`
}

// ChangeStatus is the admin transition between proposal stages. Every
// change is recorded in the status history and notifies the author.
func (uc *ProposalUseCase) ChangeStatus(ctx context.Context, adminID, proposalID string, input ChangeProposalStatusInput) (*entity.Proposal, error) {
	switch input.Status {
	case entity.ProposalPending, entity.ProposalInProgress, entity.ProposalCompleted, entity.ProposalRejected:
	default:
		return nil, errors.BadRequest("Unknown proposal status", nil)
	}

	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("Only admins can change proposal status", nil)
	}

	proposal, err := uc.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.Status == input.Status {
		return proposal, nil
	}

	change := &entity.ProposalStatusChange{
		ID:         uuid.New().String(),
		ProposalID: proposalID,
		FromStatus: proposal.Status,
		ToStatus:   input.Status,
		ChangedBy:  adminID,
		Note:       input.Note,
		CreatedAt:  time.Now(),
	}

	proposal.Status = input.Status
	if err := uc.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, err
	}
	if err := uc.proposalRepo.AppendStatusChange(ctx, change); err != nil {
		logger.Error("ChangeStatus: failed to append history for %s: %v", proposalID, err)
	}

	notification := &entity.Notification{
		ID:          uuid.New().String(),
		TenantID:    proposal.TenantID,
		UserID:      proposal.AuthorID,
		Type:        entity.NotificationProposalStatus,
		Title:       "Your proposal was updated",
		Message:     fmt.Sprintf("%q moved to %s", proposal.Title, input.Status),
		RelatedType: "proposal",
		RelatedID:   proposal.ID,
		Status:      entity.NotificationUnread,
		CreatedAt:   time.Now(),
	}
	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		logger.Error("ChangeStatus: failed to notify author %s: %v", proposal.AuthorID, err)
	}

	uc.rt.Publish(uc.proposalsRoom(proposal.TenantID), realtime.ChangeEvent{
		Type:  realtime.EventUpdate,
		Table: "proposals",
		Item:  proposal,
	})

	return proposal, nil
}

func (uc *ProposalUseCase) ListStatusHistory(ctx context.Context, proposalID string) ([]*entity.ProposalStatusChange, error) {
	return uc.proposalRepo.ListStatusHistory(ctx, proposalID)
}

type ProposalCategoryInput struct {
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func (uc *ProposalUseCase) CreateCategory(ctx context.Context, adminID string, input ProposalCategoryInput) (*entity.ProposalCategory, error) {
	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("Only admins can manage categories", nil)
	}

	category := &entity.ProposalCategory{
		ID:        uuid.New().String(),
		TenantID:  admin.TenantID,
		Name:      input.Name,
		Color:     input.Color,
		CreatedAt: time.Now(),
	}

	if err := uc.proposalRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (uc *ProposalUseCase) ListCategories(ctx context.Context, tenantID string) ([]*entity.ProposalCategory, error) {
	return uc.proposalRepo.ListCategories(ctx, tenantID)
}

func (uc *ProposalUseCase) UpdateCategory(ctx context.Context, adminID, categoryID string, input ProposalCategoryInput) (*entity.ProposalCategory, error) {
	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("Only admins can manage categories", nil)
	}

	category, err := uc.proposalRepo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	if input.Color != "" {
		category.Color = input.Color
	}
	if err := uc.proposalRepo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category; proposals keep their category id
// and render uncategorized once it no longer resolves.
func (uc *ProposalUseCase) DeleteCategory(ctx context.Context, adminID, categoryID string) error {
	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !admin.IsAdmin() {
		return errors.Forbidden("Only admins can manage categories", nil)
	}

	if _, err := uc.proposalRepo.GetCategory(ctx, categoryID); err != nil {
		return err
	}

	return uc.proposalRepo.DeleteCategory(ctx, categoryID)
}
