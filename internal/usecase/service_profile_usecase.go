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

type ServiceProfileUseCase struct {
	profileRepo    repository.ServiceProfileRepository
	moderationRepo repository.ModerationRepository
	userRepo       repository.UserRepository
}

func NewServiceProfileUseCase(
	profileRepo repository.ServiceProfileRepository,
	moderationRepo repository.ModerationRepository,
	userRepo repository.UserRepository,
) *ServiceProfileUseCase {
	return &ServiceProfileUseCase{
		profileRepo:    profileRepo,
		moderationRepo: moderationRepo,
		userRepo:       userRepo,
	}
}

type CreateProfileInput struct {
	ProfileType       string   `json:"profile_type" validate:"required,oneof=professional volunteer"`
	Category          string   `json:"category" validate:"required,min=2,max=100"`
	BusinessName      string   `json:"business_name" validate:"required,min=2,max=200"`
	Description       string   `json:"description" validate:"omitempty,max=5000"`
	Services          []string `json:"services" validate:"required,min=1,max=20,dive,min=2,max=200"`
	Certifications    []string `json:"certifications" validate:"omitempty,max=20,dive,max=200"`
	ContactPhone      string   `json:"contact_phone" validate:"omitempty,max=30"`
	ContactEmail      string   `json:"contact_email" validate:"omitempty,email"`
	Website           string   `json:"website" validate:"omitempty,url"`
	Address           string   `json:"address" validate:"omitempty,max=300"`
	HourlyRate        float64  `json:"hourly_rate" validate:"omitempty,min=0"`
	AvailabilityHours int      `json:"availability_hours" validate:"omitempty,min=0,max=168"`
}

// CreateProfile opens a directory listing for a verified resident. One
// profile per user; the profile starts pending and a moderation queue
// entry is opened, like marketplace listings.
func (uc *ServiceProfileUseCase) CreateProfile(ctx context.Context, userID string, input CreateProfileInput) (*entity.ServiceProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified() {
		return nil, errors.Forbidden("Only verified residents can create a service profile", nil)
	}

	if existing, err := uc.profileRepo.GetByUser(ctx, userID); err == nil && existing != nil {
		return nil, errors.Conflict("You already have a service profile")
	}

	now := time.Now()
	profile := &entity.ServiceProfile{
		ID:                uuid.New().String(),
		TenantID:          user.TenantID,
		UserID:            userID,
		ProfileType:       input.ProfileType,
		Category:          input.Category,
		BusinessName:      strings.TrimSpace(input.BusinessName),
		Description:       input.Description,
		Services:          input.Services,
		Certifications:    input.Certifications,
		ContactPhone:      input.ContactPhone,
		ContactEmail:      input.ContactEmail,
		Website:           input.Website,
		Address:           input.Address,
		HourlyRate:        input.HourlyRate,
		AvailabilityHours: input.AvailabilityHours,
		Status:            entity.ProfilePending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	queueItem := &entity.ModerationItem{
		ID:        uuid.New().String(),
		TenantID:  user.TenantID,
		ItemType:  entity.ModerationTypeServiceProfile,
		ItemID:    profile.ID,
		Status:    entity.ModerationPending,
		CreatedAt: now,
	}
	if err := uc.moderationRepo.Enqueue(ctx, queueItem); err != nil {
		logger.Error("CreateProfile: failed to enqueue profile %s for moderation: %v", profile.ID, err)
		return nil, err
	}

	return profile, nil
}

func (uc *ServiceProfileUseCase) GetProfile(ctx context.Context, viewerID, profileID string) (*entity.ServiceProfile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	// Pending and rejected profiles are only visible to their owner and
	// to moderators.
	if profile.Status != entity.ProfileApproved && profile.UserID != viewerID {
		viewer, err := uc.userRepo.GetByID(ctx, viewerID)
		if err != nil || !viewer.IsModerator() {
			return nil, errors.NotFound("Service profile", nil)
		}
	}

	return profile, nil
}

func (uc *ServiceProfileUseCase) ListProfiles(ctx context.Context, tenantID string, filter repository.ServiceProfileFilter, limit, offset int) ([]*entity.ServiceProfile, int64, error) {
	return uc.profileRepo.ListApproved(ctx, tenantID, filter, limit, offset)
}

func (uc *ServiceProfileUseCase) GetMyProfile(ctx context.Context, userID string) (*entity.ServiceProfile, error) {
	return uc.profileRepo.GetByUser(ctx, userID)
}

// UpdateProfile edits the caller's profile. Any edit sends the profile
// back through moderation before it is publicly listed again.
func (uc *ServiceProfileUseCase) UpdateProfile(ctx context.Context, userID, profileID string, input CreateProfileInput) (*entity.ServiceProfile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.UserID != userID {
		return nil, errors.Forbidden("You can only edit your own service profile", nil)
	}

	profile.ProfileType = input.ProfileType
	profile.Category = input.Category
	profile.BusinessName = strings.TrimSpace(input.BusinessName)
	profile.Description = input.Description
	profile.Services = input.Services
	profile.Certifications = input.Certifications
	profile.ContactPhone = input.ContactPhone
	profile.ContactEmail = input.ContactEmail
	profile.Website = input.Website
	profile.Address = input.Address
	profile.HourlyRate = input.HourlyRate
	profile.AvailabilityHours = input.AvailabilityHours
	profile.Status = entity.ProfilePending

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	queueItem := &entity.ModerationItem{
		ID:        uuid.New().String(),
		TenantID:  profile.TenantID,
		ItemType:  entity.ModerationTypeServiceProfile,
		ItemID:    profile.ID,
		Status:    entity.ModerationPending,
		CreatedAt: time.Now(),
	}
	if err := uc.moderationRepo.Enqueue(ctx, queueItem); err != nil {
		logger.Error("UpdateProfile: failed to re-enqueue profile %s: %v", profile.ID, err)
	}

	return profile, nil
}

func (uc *ServiceProfileUseCase) DeleteProfile(ctx context.Context, userID, profileID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	profile, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile.UserID != userID && !user.IsModerator() {
		return errors.Forbidden("You cannot delete this service profile", nil)
	}

	return uc.profileRepo.Delete(ctx, profileID)
}
