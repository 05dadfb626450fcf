package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/logger"
)

type UserUseCase struct {
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) *UserUseCase {
	return &UserUseCase{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// TenantOf resolves which neighborhood a resident belongs to.
func (uc *UserUseCase) TenantOf(ctx context.Context, userID string) (string, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.TenantID, nil
}

type UpdateProfileInput struct {
	Name    string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone   string `json:"phone" validate:"omitempty,min=6,max=20"`
	Bio     string `json:"bio" validate:"omitempty,max=500"`
	Address string `json:"address" validate:"omitempty,max=200"`
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Address != "" {
		user.Address = input.Address
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) ListPendingVerifications(ctx context.Context, tenantID string, limit, offset int) ([]*entity.User, int64, error) {
	return uc.userRepo.ListByVerificationStatus(ctx, tenantID, entity.VerificationPending, limit, offset)
}

// DecideVerification approves or rejects a pending resident. The
// decision notifies the resident and completes every admin's open
// action-pending notification for this registration.
func (uc *UserUseCase) DecideVerification(ctx context.Context, adminID, userID, decision string) (*entity.User, error) {
	if decision != entity.VerificationApproved && decision != entity.VerificationRejected {
		return nil, errors.BadRequest("Decision must be approved or rejected", nil)
	}

	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("Only admins can verify residents", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.VerificationStatus != entity.VerificationPending {
		return nil, errors.Conflict("This resident has already been verified")
	}

	user.VerificationStatus = decision
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	notificationType := entity.NotificationUserApproved
	title := "Welcome to the community"
	message := "Your residency has been verified. You can now vote, RSVP and post content."
	if decision == entity.VerificationRejected {
		notificationType = entity.NotificationUserRejected
		title = "Verification rejected"
		message = "Your residency request was not approved. Contact the administrators for details."
	}

	notification := &entity.Notification{
		ID:          uuid.New().String(),
		TenantID:    user.TenantID,
		UserID:      user.ID,
		Type:        notificationType,
		Title:       title,
		Message:     message,
		RelatedType: "user",
		RelatedID:   user.ID,
		Status:      entity.NotificationUnread,
		CreatedAt:   time.Now(),
	}
	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		logger.Error("DecideVerification: failed to notify user %s: %v", user.ID, err)
	}

	// Close the open verification requests on every admin's list.
	if err := uc.notificationRepo.MarkActionCompletedByRelated(ctx, user.ID); err != nil {
		logger.Error("DecideVerification: failed to complete admin notifications for %s: %v", user.ID, err)
	}

	return user, nil
}

// SetRole promotes or demotes a resident. Only admins can change roles,
// and the super admin role can only be granted by another super admin.
func (uc *UserUseCase) SetRole(ctx context.Context, adminID, userID, role string) (*entity.User, error) {
	switch role {
	case entity.RoleUser, entity.RoleModerator, entity.RoleAdmin, entity.RoleSuperAdmin:
	default:
		return nil, errors.BadRequest("Unknown role", nil)
	}

	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("Only admins can change roles", nil)
	}
	if role == entity.RoleSuperAdmin && admin.Role != entity.RoleSuperAdmin {
		return nil, errors.Forbidden("Only a super admin can grant super admin", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
