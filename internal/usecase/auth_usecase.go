package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/logger"
)

type AuthUseCase struct {
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	authClient       FirebaseAuthClient
	defaultTenant    string
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	authClient FirebaseAuthClient,
	defaultTenant string,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		authClient:       authClient,
		defaultTenant:    defaultTenant,
	}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"omitempty,min=6,max=20"`
	Address  string `json:"address" validate:"omitempty,max=200"`
}

type AuthResponse struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// Register creates the auth account and the resident profile. New
// residents start unverified; every admin of the tenant gets an
// action-pending notification that stays open until someone decides.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	if _, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, errors.Conflict("Email is already registered")
	}

	uid, err := uc.authClient.CreateUser(ctx, input.Email, input.Password, input.Name)
	if err != nil {
		logger.Error("Register: failed to create auth account for %s: %v", input.Email, err)
		return nil, errors.Internal("Failed to create account", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:                 uid,
		TenantID:           uc.defaultTenant,
		Email:              input.Email,
		Name:               input.Name,
		Phone:              input.Phone,
		Address:            input.Address,
		Role:               entity.RoleUser,
		Status:             "active",
		VerificationStatus: entity.VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Roll back the orphaned auth account so the email can retry.
		if delErr := uc.authClient.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Register: failed to clean up auth account %s: %v", uid, delErr)
		}
		return nil, err
	}

	uc.notifyAdmins(ctx, user)

	token, err := uc.authClient.GenerateToken(ctx, uid)
	if err != nil {
		logger.Warn("Register: token generation failed for %s: %v", uid, err)
	}

	return &AuthResponse{User: user, Token: token}, nil
}

// notifyAdmins opens an action-pending verification request for every
// tenant admin. Failures are logged, not returned: registration itself
// has already committed.
func (uc *AuthUseCase) notifyAdmins(ctx context.Context, user *entity.User) {
	admins, err := uc.userRepo.ListAdmins(ctx, user.TenantID)
	if err != nil {
		logger.Error("Register: failed to list admins for tenant %s: %v", user.TenantID, err)
		return
	}

	for _, admin := range admins {
		notification := &entity.Notification{
			ID:             uuid.New().String(),
			TenantID:       user.TenantID,
			UserID:         admin.ID,
			Type:           entity.NotificationUserRegistration,
			Title:          "New resident registration",
			Message:        fmt.Sprintf("%s requested access and is waiting for verification", user.Name),
			RelatedType:    "user",
			RelatedID:      user.ID,
			Status:         entity.NotificationActionPending,
			RequiresAction: true,
			CreatedAt:      time.Now(),
		}
		if err := uc.notificationRepo.Create(ctx, notification); err != nil {
			logger.Error("Register: failed to notify admin %s: %v", admin.ID, err)
		}
	}
}

// Authenticate resolves a bearer token to the resident profile.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	uid, err := uc.authClient.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}

	return uc.userRepo.GetByID(ctx, uid)
}

// GetUser loads a resident profile by id.
func (uc *AuthUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type ChangePasswordInput struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	if err := uc.authClient.UpdateUserPassword(ctx, userID, input.NewPassword); err != nil {
		return errors.Internal("Failed to update password", err)
	}
	return nil
}
