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

type firestoreMarketplaceRepository struct {
	client *firestore.Client
}

func NewFirestoreMarketplaceRepository(client *firestore.Client) repository.MarketplaceRepository {
	return &firestoreMarketplaceRepository{
		client: client,
	}
}

func (r *firestoreMarketplaceRepository) Create(ctx context.Context, item *entity.MarketplaceItem) error {
	_, err := r.client.Collection("marketplace_items").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to create marketplace item", err)
	}
	return nil
}

func (r *firestoreMarketplaceRepository) GetByID(ctx context.Context, id string) (*entity.MarketplaceItem, error) {
	doc, err := r.client.Collection("marketplace_items").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Marketplace item", err)
		}
		return nil, errors.Internal("Failed to get marketplace item", err)
	}

	var item entity.MarketplaceItem
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse marketplace item data", err)
	}

	return &item, nil
}

func (r *firestoreMarketplaceRepository) Update(ctx context.Context, item *entity.MarketplaceItem) error {
	item.UpdatedAt = time.Now()
	_, err := r.client.Collection("marketplace_items").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to update marketplace item", err)
	}
	return nil
}

func (r *firestoreMarketplaceRepository) ListApproved(ctx context.Context, tenantID string, limit, offset int) ([]*entity.MarketplaceItem, int64, error) {
	query := r.client.Collection("marketplace_items").
		Where("tenantId", "==", tenantID).
		Where("status", "==", entity.ItemApproved).
		OrderBy("createdAt", firestore.Desc)

	return r.paginate(ctx, query, limit, offset)
}

func (r *firestoreMarketplaceRepository) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.MarketplaceItem, int64, error) {
	query := r.client.Collection("marketplace_items").
		Where("sellerId", "==", sellerID).
		OrderBy("createdAt", firestore.Desc)

	return r.paginate(ctx, query, limit, offset)
}

func (r *firestoreMarketplaceRepository) paginate(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.MarketplaceItem, int64, error) {
	items := make([]*entity.MarketplaceItem, 0)
	var total int64

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list marketplace items", err)
		}

		var item entity.MarketplaceItem
		if err := doc.DataTo(&item); err != nil {
			return nil, 0, errors.Internal("Failed to parse marketplace item data", err)
		}
		if !item.DeletedAt.IsZero() {
			continue
		}

		total++
		if total <= int64(offset) || len(items) >= limit {
			continue
		}
		items = append(items, &item)
	}

	return items, total, nil
}

func (r *firestoreMarketplaceRepository) MarkSold(ctx context.Context, id string) error {
	_, err := r.client.Collection("marketplace_items").Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: entity.ItemSold},
		{Path: "soldAt", Value: time.Now()},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Marketplace item", err)
		}
		return errors.Internal("Failed to mark item sold", err)
	}
	return nil
}

func (r *firestoreMarketplaceRepository) SoftDelete(ctx context.Context, id string) error {
	_, err := r.client.Collection("marketplace_items").Doc(id).Update(ctx, []firestore.Update{
		{Path: "deletedAt", Value: time.Now()},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Marketplace item", err)
		}
		return errors.Internal("Failed to delete marketplace item", err)
	}
	return nil
}
