package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/errors"
)

type firestoreForumRepository struct {
	client *firestore.Client
}

func NewFirestoreForumRepository(client *firestore.Client) repository.ForumRepository {
	return &firestoreForumRepository{
		client: client,
	}
}

func (r *firestoreForumRepository) CreateCategory(ctx context.Context, category *entity.ForumCategory) error {
	_, err := r.client.Collection("forum_categories").Doc(category.ID).Set(ctx, category)
	if err != nil {
		return errors.Internal("Failed to create forum category", err)
	}
	return nil
}

func (r *firestoreForumRepository) GetCategory(ctx context.Context, id string) (*entity.ForumCategory, error) {
	doc, err := r.client.Collection("forum_categories").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Forum category", err)
		}
		return nil, errors.Internal("Failed to get forum category", err)
	}

	var category entity.ForumCategory
	if err := doc.DataTo(&category); err != nil {
		return nil, errors.Internal("Failed to parse forum category data", err)
	}

	return &category, nil
}

func (r *firestoreForumRepository) ListCategories(ctx context.Context, tenantID string) ([]*entity.ForumCategory, error) {
	query := r.client.Collection("forum_categories").
		Where("tenantId", "==", tenantID).
		OrderBy("position", firestore.Asc)

	categories := make([]*entity.ForumCategory, 0)

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list forum categories", err)
		}

		var category entity.ForumCategory
		if err := doc.DataTo(&category); err != nil {
			return nil, errors.Internal("Failed to parse forum category data", err)
		}
		categories = append(categories, &category)
	}

	return categories, nil
}

func (r *firestoreForumRepository) CreateThread(ctx context.Context, thread *entity.ForumThread) error {
	_, err := r.client.Collection("forum_threads").Doc(thread.ID).Set(ctx, thread)
	if err != nil {
		return errors.Internal("Failed to create thread", err)
	}
	return nil
}

func (r *firestoreForumRepository) GetThread(ctx context.Context, id string) (*entity.ForumThread, error) {
	doc, err := r.client.Collection("forum_threads").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Thread", err)
		}
		return nil, errors.Internal("Failed to get thread", err)
	}

	var thread entity.ForumThread
	if err := doc.DataTo(&thread); err != nil {
		return nil, errors.Internal("Failed to parse thread data", err)
	}

	return &thread, nil
}

func (r *firestoreForumRepository) UpdateThread(ctx context.Context, thread *entity.ForumThread) error {
	_, err := r.client.Collection("forum_threads").Doc(thread.ID).Set(ctx, thread)
	if err != nil {
		return errors.Internal("Failed to update thread", err)
	}
	return nil
}

// ListThreads orders pinned-first, then by last activity descending.
// This is the canonical ordering: realtime subscribers receive the
// whole list again after each change instead of patching rows.
func (r *firestoreForumRepository) ListThreads(ctx context.Context, categoryID string, limit, offset int) ([]*entity.ForumThread, int64, error) {
	query := r.client.Collection("forum_threads").
		Where("categoryId", "==", categoryID)

	threads := make([]*entity.ForumThread, 0)

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list threads", err)
		}

		var thread entity.ForumThread
		if err := doc.DataTo(&thread); err != nil {
			return nil, 0, errors.Internal("Failed to parse thread data", err)
		}
		threads = append(threads, &thread)
	}

	sort.Slice(threads, func(i, j int) bool {
		if threads[i].Pinned != threads[j].Pinned {
			return threads[i].Pinned
		}
		return threads[i].LastActivity.After(threads[j].LastActivity)
	})

	total := int64(len(threads))
	if offset >= len(threads) {
		return []*entity.ForumThread{}, total, nil
	}
	end := offset + limit
	if end > len(threads) {
		end = len(threads)
	}

	return threads[offset:end], total, nil
}

func (r *firestoreForumRepository) IncrementThreadViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("forum_threads").Doc(id).Update(ctx, []firestore.Update{
		{Path: "viewCount", Value: firestore.Increment(1)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Thread", err)
		}
		return errors.Internal("Failed to increment thread views", err)
	}
	return nil
}

// CreatePost inserts the post and bumps the thread's reply count and
// activity timestamp in one transaction. Locked threads reject posts.
func (r *firestoreForumRepository) CreatePost(ctx context.Context, post *entity.ForumPost) error {
	threadRef := r.client.Collection("forum_threads").Doc(post.ThreadID)
	postRef := threadRef.Collection("posts").Doc(post.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(threadRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Thread", err)
			}
			return err
		}

		var thread entity.ForumThread
		if err := doc.DataTo(&thread); err != nil {
			return err
		}

		if thread.Locked {
			return errors.Closed("THREAD_LOCKED", "This thread is locked")
		}

		if err := tx.Set(postRef, post); err != nil {
			return err
		}

		return tx.Update(threadRef, []firestore.Update{
			{Path: "replyCount", Value: firestore.Increment(1)},
			{Path: "lastActivity", Value: post.CreatedAt},
		})
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return err
		}
		return errors.Internal("Failed to create post", err)
	}

	return nil
}

func (r *firestoreForumRepository) GetPost(ctx context.Context, threadID, postID string) (*entity.ForumPost, error) {
	doc, err := r.client.Collection("forum_threads").Doc(threadID).
		Collection("posts").Doc(postID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Post", err)
		}
		return nil, errors.Internal("Failed to get post", err)
	}

	var post entity.ForumPost
	if err := doc.DataTo(&post); err != nil {
		return nil, errors.Internal("Failed to parse post data", err)
	}

	return &post, nil
}

func (r *firestoreForumRepository) ListPosts(ctx context.Context, threadID string, limit, offset int) ([]*entity.ForumPost, int64, error) {
	query := r.client.Collection("forum_threads").Doc(threadID).
		Collection("posts").
		OrderBy("createdAt", firestore.Asc)

	posts := make([]*entity.ForumPost, 0)
	var total int64

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list posts", err)
		}

		var post entity.ForumPost
		if err := doc.DataTo(&post); err != nil {
			return nil, 0, errors.Internal("Failed to parse post data", err)
		}
		if !post.DeletedAt.IsZero() {
			continue
		}

		total++
		if total <= int64(offset) || len(posts) >= limit {
			continue
		}
		posts = append(posts, &post)
	}

	return posts, total, nil
}

func (r *firestoreForumRepository) UpdatePost(ctx context.Context, post *entity.ForumPost) error {
	post.Edited = true
	post.UpdatedAt = time.Now()
	_, err := r.client.Collection("forum_threads").Doc(post.ThreadID).
		Collection("posts").Doc(post.ID).Set(ctx, post)
	if err != nil {
		return errors.Internal("Failed to update post", err)
	}
	return nil
}

func (r *firestoreForumRepository) SoftDeletePost(ctx context.Context, threadID, postID string) error {
	_, err := r.client.Collection("forum_threads").Doc(threadID).
		Collection("posts").Doc(postID).Update(ctx, []firestore.Update{
		{Path: "deletedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Post", err)
		}
		return errors.Internal("Failed to delete post", err)
	}
	return nil
}
