package entity

import "time"

type ForumCategory struct {
	ID          string    `json:"id" firestore:"id"`
	TenantID    string    `json:"tenant_id" firestore:"tenantId"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	Position    int       `json:"position" firestore:"position"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}

// ForumThread ordering depends on aggregate fields (pin flag, last
// activity) that realtime change events do not carry, so category
// listings are refetched wholesale instead of patched.
type ForumThread struct {
	ID           string    `json:"id" firestore:"id"`
	TenantID     string    `json:"tenant_id" firestore:"tenantId"`
	CategoryID   string    `json:"category_id" firestore:"categoryId"`
	AuthorID     string    `json:"author_id" firestore:"authorId"`
	Title        string    `json:"title" firestore:"title"`
	Pinned       bool      `json:"pinned" firestore:"pinned"`
	Locked       bool      `json:"locked" firestore:"locked"`
	ReplyCount   int       `json:"reply_count" firestore:"replyCount"`
	ViewCount    int       `json:"view_count" firestore:"viewCount"`
	LastActivity time.Time `json:"last_activity" firestore:"lastActivity"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
}

func (t *ForumThread) ItemID() string    { return t.ID }
func (t *ForumThread) TableName() string { return "forum_threads" }

type ForumPost struct {
	ID        string    `json:"id" firestore:"id"`
	ThreadID  string    `json:"thread_id" firestore:"threadId"`
	AuthorID  string    `json:"author_id" firestore:"authorId"`
	Content   string    `json:"content" firestore:"content"`
	Edited    bool      `json:"edited" firestore:"edited"`
	DeletedAt time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (p *ForumPost) ItemID() string    { return p.ID }
func (p *ForumPost) TableName() string { return "forum_posts" }
