package entity

import "time"

const (
	ArticleDraft     = "draft"
	ArticlePublished = "published"
	ArticleArchived  = "archived"
)

// Article is editorial content surfaced on the feed.
type Article struct {
	ID          string    `json:"id" firestore:"id"`
	TenantID    string    `json:"tenant_id" firestore:"tenantId"`
	AuthorID    string    `json:"author_id" firestore:"authorId"`
	Title       string    `json:"title" firestore:"title"`
	Slug        string    `json:"slug" firestore:"slug"`
	Excerpt     string    `json:"excerpt,omitempty" firestore:"excerpt,omitempty"`
	Content     string    `json:"content" firestore:"content"`
	CoverImage  string    `json:"cover_image,omitempty" firestore:"coverImage,omitempty"`
	Status      string    `json:"status" firestore:"status"`
	PublishedAt time.Time `json:"published_at,omitempty" firestore:"publishedAt,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
