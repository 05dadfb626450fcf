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

type firestoreModerationRepository struct {
	client *firestore.Client
}

func NewFirestoreModerationRepository(client *firestore.Client) repository.ModerationRepository {
	return &firestoreModerationRepository{
		client: client,
	}
}

// targetCollection maps a queue item type to the collection holding the
// content row whose status mirrors the decision.
func targetCollection(itemType string) (string, bool) {
	switch itemType {
	case entity.ModerationTypeMarketplace:
		return "marketplace_items", true
	case entity.ModerationTypeServiceProfile:
		return "service_profiles", true
	case entity.ModerationTypeArticle:
		return "articles", true
	}
	return "", false
}

func (r *firestoreModerationRepository) Enqueue(ctx context.Context, item *entity.ModerationItem) error {
	_, err := r.client.Collection("moderation_queue").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to enqueue moderation item", err)
	}
	return nil
}

func (r *firestoreModerationRepository) GetByID(ctx context.Context, id string) (*entity.ModerationItem, error) {
	doc, err := r.client.Collection("moderation_queue").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Moderation item", err)
		}
		return nil, errors.Internal("Failed to get moderation item", err)
	}

	var item entity.ModerationItem
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse moderation item data", err)
	}

	return &item, nil
}

func (r *firestoreModerationRepository) List(ctx context.Context, tenantID string, filter repository.ModerationFilter, limit, offset int) ([]*entity.ModerationItem, int64, error) {
	query := r.client.Collection("moderation_queue").Where("tenantId", "==", tenantID)

	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}
	if filter.ItemType != "" {
		query = query.Where("itemType", "==", filter.ItemType)
	}
	query = query.OrderBy("createdAt", firestore.Asc)

	items := make([]*entity.ModerationItem, 0)
	var total int64

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list moderation queue", err)
		}

		total++
		if total <= int64(offset) || len(items) >= limit {
			continue
		}

		var item entity.ModerationItem
		if err := doc.DataTo(&item); err != nil {
			return nil, 0, errors.Internal("Failed to parse moderation item data", err)
		}
		items = append(items, &item)
	}

	return items, total, nil
}

func (r *firestoreModerationRepository) ListByAssignee(ctx context.Context, userID string) ([]*entity.ModerationItem, error) {
	query := r.client.Collection("moderation_queue").
		Where("assignedTo", "==", userID).
		Where("status", "==", entity.ModerationPending)

	items := make([]*entity.ModerationItem, 0)

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list assigned items", err)
		}

		var item entity.ModerationItem
		if err := doc.DataTo(&item); err != nil {
			return nil, errors.Internal("Failed to parse moderation item data", err)
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *firestoreModerationRepository) Assign(ctx context.Context, id, userID string) error {
	_, err := r.client.Collection("moderation_queue").Doc(id).Update(ctx, []firestore.Update{
		{Path: "assignedTo", Value: userID},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Moderation item", err)
		}
		return errors.Internal("Failed to assign moderation item", err)
	}
	return nil
}

// Decide commits the queue transition and the target row's status in a
// single transaction, so the queue and the content can never disagree.
// A decision on a non-pending item fails with CONFLICT.
func (r *firestoreModerationRepository) Decide(ctx context.Context, id, decision, moderatorID, note string) (*entity.ModerationItem, error) {
	queueRef := r.client.Collection("moderation_queue").Doc(id)

	var decided entity.ModerationItem

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(queueRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Moderation item", err)
			}
			return err
		}

		var item entity.ModerationItem
		if err := doc.DataTo(&item); err != nil {
			return err
		}

		if item.Status != entity.ModerationPending {
			return errors.Conflict("Moderation item has already been decided")
		}

		collection, ok := targetCollection(item.ItemType)
		if !ok {
			return errors.BadRequest("Unknown moderation item type", nil)
		}
		targetRef := r.client.Collection(collection).Doc(item.ItemID)

		// Confirm the target still exists before writing anything.
		if _, err := tx.Get(targetRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Moderated content", err)
			}
			return err
		}

		now := time.Now()

		item.Status = decision
		item.ModeratedBy = moderatorID
		item.Note = note
		item.ModeratedAt = now
		if err := tx.Set(queueRef, &item); err != nil {
			return err
		}

		updates := []firestore.Update{
			{Path: "status", Value: targetStatus(item.ItemType, decision)},
			{Path: "updatedAt", Value: now},
		}
		if item.ItemType == entity.ModerationTypeMarketplace && decision == entity.ModerationApproved {
			updates = append(updates,
				firestore.Update{Path: "approvedBy", Value: moderatorID},
				firestore.Update{Path: "approvedAt", Value: now},
			)
		}
		if err := tx.Update(targetRef, updates); err != nil {
			return err
		}

		decided = item
		return nil
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to decide moderation item", err)
	}

	return &decided, nil
}

// targetStatus maps the queue decision onto the target collection's own
// status vocabulary.
func targetStatus(itemType, decision string) string {
	if itemType == entity.ModerationTypeArticle {
		if decision == entity.ModerationApproved {
			return entity.ArticlePublished
		}
		return entity.ArticleArchived
	}
	return decision
}

func (r *firestoreModerationRepository) AppendAction(ctx context.Context, action *entity.ModerationAction) error {
	_, err := r.client.Collection("moderation_actions_log").Doc(action.ID).Set(ctx, action)
	if err != nil {
		return errors.Internal("Failed to append moderation action", err)
	}
	return nil
}
