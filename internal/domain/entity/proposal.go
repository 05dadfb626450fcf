package entity

import "time"

const (
	ProposalPending    = "pending"
	ProposalInProgress = "in_progress"
	ProposalCompleted  = "completed"
	ProposalRejected   = "rejected"
)

const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Proposal is a civic proposal in the Agora. Vote counters are
// denormalized here and updated in the same transaction as the vote row.
type Proposal struct {
	ID         string    `json:"id" firestore:"id"`
	TenantID   string    `json:"tenant_id" firestore:"tenantId"`
	AuthorID   string    `json:"author_id" firestore:"authorId"`
	CategoryID string    `json:"category_id,omitempty" firestore:"categoryId,omitempty"`
	Title      string    `json:"title" firestore:"title"`
	Content    string    `json:"content" firestore:"content"`
	Status     string    `json:"status" firestore:"status"`
	Upvotes    int       `json:"upvotes" firestore:"upvotes"`
	Downvotes  int       `json:"downvotes" firestore:"downvotes"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}

// IsOpen reports whether the proposal still accepts votes and comments.
func (p *Proposal) IsOpen() bool {
	return p.Status == ProposalPending || p.Status == ProposalInProgress
}

func (p *Proposal) ItemID() string    { return p.ID }
func (p *Proposal) TableName() string { return "proposals" }

// ProposalVote is a per-user, per-proposal choice. At most one active
// vote exists per (user, proposal); the document id is derived from
// that pair to make the invariant structural.
type ProposalVote struct {
	ID         string    `json:"id" firestore:"id"`
	ProposalID string    `json:"proposal_id" firestore:"proposalId"`
	UserID     string    `json:"user_id" firestore:"userId"`
	VoteType   string    `json:"vote_type" firestore:"voteType"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

type ProposalComment struct {
	ID         string    `json:"id" firestore:"id"`
	ProposalID string    `json:"proposal_id" firestore:"proposalId"`
	AuthorID   string    `json:"author_id" firestore:"authorId"`
	Content    string    `json:"content" firestore:"content"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

type ProposalCategory struct {
	ID        string    `json:"id" firestore:"id"`
	TenantID  string    `json:"tenant_id" firestore:"tenantId"`
	Name      string    `json:"name" firestore:"name"`
	Color     string    `json:"color,omitempty" firestore:"color,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// ProposalStatusChange records an admin status transition with its note.
type ProposalStatusChange struct {
	ID         string    `json:"id" firestore:"id"`
	ProposalID string    `json:"proposal_id" firestore:"proposalId"`
	FromStatus string    `json:"from_status" firestore:"fromStatus"`
	ToStatus   string    `json:"to_status" firestore:"toStatus"`
	ChangedBy  string    `json:"changed_by" firestore:"changedBy"`
	Note       string    `json:"note,omitempty" firestore:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}
