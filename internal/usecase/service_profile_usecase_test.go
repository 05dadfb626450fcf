package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/pkg/errors"
)

func newServiceProfileFixture(t *testing.T) (*ServiceProfileUseCase, *fakeServiceProfileRepo, *fakeModerationRepo) {
	t.Helper()

	userRepo := newFakeUserRepo(
		verifiedUser("plumber", "prato"),
		verifiedUser("baker", "prato"),
	)
	pending := verifiedUser("newcomer", "prato")
	pending.VerificationStatus = entity.VerificationPending
	userRepo.users["newcomer"] = pending

	profiles := newFakeServiceProfileRepo()
	moderation := newFakeModerationRepo(newFakeMarketplaceRepo(), profiles, newFakeArticleRepo())

	return NewServiceProfileUseCase(profiles, moderation, userRepo), profiles, moderation
}

func plumberProfileInput() CreateProfileInput {
	return CreateProfileInput{
		ProfileType:  entity.ProfileTypeProfessional,
		Category:     "plumbing",
		BusinessName: "Idraulica Rossi",
		Services:     []string{"Leak repair"},
	}
}

func TestCreateProfileRequiresVerifiedResident(t *testing.T) {
	uc, _, _ := newServiceProfileFixture(t)

	_, err := uc.CreateProfile(context.Background(), "newcomer", plumberProfileInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestCreateProfileStartsPendingAndEnqueuesModeration(t *testing.T) {
	uc, profiles, moderation := newServiceProfileFixture(t)

	profile, err := uc.CreateProfile(context.Background(), "plumber", plumberProfileInput())
	require.NoError(t, err)

	assert.Equal(t, entity.ProfilePending, profile.Status)
	assert.Equal(t, "prato", profile.TenantID)
	assert.Contains(t, profiles.profiles, profile.ID)

	require.Len(t, moderation.queue, 1)
	for _, item := range moderation.queue {
		assert.Equal(t, entity.ModerationTypeServiceProfile, item.ItemType)
		assert.Equal(t, profile.ID, item.ItemID)
		assert.Equal(t, entity.ModerationPending, item.Status)
	}
}

func TestCreateProfileOnePerUser(t *testing.T) {
	uc, _, _ := newServiceProfileFixture(t)
	ctx := context.Background()

	_, err := uc.CreateProfile(ctx, "plumber", plumberProfileInput())
	require.NoError(t, err)

	_, err = uc.CreateProfile(ctx, "plumber", plumberProfileInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestUpdateProfileResetsToPendingAndReenqueues(t *testing.T) {
	uc, profiles, moderation := newServiceProfileFixture(t)
	ctx := context.Background()

	profile, err := uc.CreateProfile(ctx, "plumber", plumberProfileInput())
	require.NoError(t, err)
	profiles.profiles[profile.ID].Status = entity.ProfileApproved

	input := plumberProfileInput()
	input.Description = "Twenty years of experience"

	_, err = uc.UpdateProfile(ctx, "baker", profile.ID, input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	updated, err := uc.UpdateProfile(ctx, "plumber", profile.ID, input)
	require.NoError(t, err)

	// Any edit goes back through moderation before the profile is
	// publicly listed again.
	assert.Equal(t, entity.ProfilePending, updated.Status)
	assert.Equal(t, "Twenty years of experience", updated.Description)
	assert.Len(t, moderation.queue, 2)
}

func TestGetProfileHidesPendingFromOthers(t *testing.T) {
	uc, _, _ := newServiceProfileFixture(t)
	ctx := context.Background()

	profile, err := uc.CreateProfile(ctx, "plumber", plumberProfileInput())
	require.NoError(t, err)

	_, err = uc.GetProfile(ctx, "baker", profile.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	own, err := uc.GetProfile(ctx, "plumber", profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, own.ID)
}
