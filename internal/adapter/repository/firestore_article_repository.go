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

type firestoreArticleRepository struct {
	client *firestore.Client
}

func NewFirestoreArticleRepository(client *firestore.Client) repository.ArticleRepository {
	return &firestoreArticleRepository{
		client: client,
	}
}

func (r *firestoreArticleRepository) Create(ctx context.Context, article *entity.Article) error {
	_, err := r.client.Collection("articles").Doc(article.ID).Set(ctx, article)
	if err != nil {
		return errors.Internal("Failed to create article", err)
	}
	return nil
}

func (r *firestoreArticleRepository) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	doc, err := r.client.Collection("articles").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Article", err)
		}
		return nil, errors.Internal("Failed to get article", err)
	}

	var article entity.Article
	if err := doc.DataTo(&article); err != nil {
		return nil, errors.Internal("Failed to parse article data", err)
	}

	return &article, nil
}

func (r *firestoreArticleRepository) GetBySlug(ctx context.Context, tenantID, slug string) (*entity.Article, error) {
	query := r.client.Collection("articles").
		Where("tenantId", "==", tenantID).
		Where("slug", "==", slug).
		Limit(1)

	iter := query.Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Article", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query article", err)
	}

	var article entity.Article
	if err := doc.DataTo(&article); err != nil {
		return nil, errors.Internal("Failed to parse article data", err)
	}

	return &article, nil
}

func (r *firestoreArticleRepository) Update(ctx context.Context, article *entity.Article) error {
	article.UpdatedAt = time.Now()
	_, err := r.client.Collection("articles").Doc(article.ID).Set(ctx, article)
	if err != nil {
		return errors.Internal("Failed to update article", err)
	}
	return nil
}

func (r *firestoreArticleRepository) ListPublished(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Article, int64, error) {
	query := r.client.Collection("articles").
		Where("tenantId", "==", tenantID).
		Where("status", "==", entity.ArticlePublished).
		OrderBy("publishedAt", firestore.Desc)

	articles := make([]*entity.Article, 0)
	var total int64

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list articles", err)
		}

		total++
		if total <= int64(offset) || len(articles) >= limit {
			continue
		}

		var article entity.Article
		if err := doc.DataTo(&article); err != nil {
			return nil, 0, errors.Internal("Failed to parse article data", err)
		}
		articles = append(articles, &article)
	}

	return articles, total, nil
}
