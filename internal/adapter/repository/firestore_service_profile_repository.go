package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/errors"
)

type firestoreServiceProfileRepository struct {
	client *firestore.Client
}

func NewFirestoreServiceProfileRepository(client *firestore.Client) repository.ServiceProfileRepository {
	return &firestoreServiceProfileRepository{
		client: client,
	}
}

func (r *firestoreServiceProfileRepository) Create(ctx context.Context, profile *entity.ServiceProfile) error {
	_, err := r.client.Collection("service_profiles").Doc(profile.ID).Set(ctx, profile)
	if err != nil {
		return errors.Internal("Failed to create service profile", err)
	}
	return nil
}

func (r *firestoreServiceProfileRepository) GetByID(ctx context.Context, id string) (*entity.ServiceProfile, error) {
	doc, err := r.client.Collection("service_profiles").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Service profile", err)
		}
		return nil, errors.Internal("Failed to get service profile", err)
	}

	var profile entity.ServiceProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, errors.Internal("Failed to parse service profile data", err)
	}

	return &profile, nil
}

func (r *firestoreServiceProfileRepository) GetByUser(ctx context.Context, userID string) (*entity.ServiceProfile, error) {
	iter := r.client.Collection("service_profiles").
		Where("userId", "==", userID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Service profile", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get service profile", err)
	}

	var profile entity.ServiceProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, errors.Internal("Failed to parse service profile data", err)
	}

	return &profile, nil
}

func (r *firestoreServiceProfileRepository) Update(ctx context.Context, profile *entity.ServiceProfile) error {
	profile.UpdatedAt = time.Now()
	_, err := r.client.Collection("service_profiles").Doc(profile.ID).Set(ctx, profile)
	if err != nil {
		return errors.Internal("Failed to update service profile", err)
	}
	return nil
}

func (r *firestoreServiceProfileRepository) ListApproved(ctx context.Context, tenantID string, filter repository.ServiceProfileFilter, limit, offset int) ([]*entity.ServiceProfile, int64, error) {
	query := r.client.Collection("service_profiles").
		Where("tenantId", "==", tenantID).
		Where("status", "==", entity.ProfileApproved)

	if filter.Category != "" {
		query = query.Where("category", "==", filter.Category)
	}
	if filter.ProfileType != "" {
		query = query.Where("profileType", "==", filter.ProfileType)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	profiles := make([]*entity.ServiceProfile, 0)
	var total int64

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list service profiles", err)
		}

		var profile entity.ServiceProfile
		if err := doc.DataTo(&profile); err != nil {
			return nil, 0, errors.Internal("Failed to parse service profile data", err)
		}

		total++
		if total <= int64(offset) || len(profiles) >= limit {
			continue
		}
		profiles = append(profiles, &profile)
	}

	return profiles, total, nil
}

func (r *firestoreServiceProfileRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("service_profiles").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete service profile", err)
	}
	return nil
}
