package repository

import (
	"context"

	"pratorinaldo/internal/domain/entity"
)

// Vote actions reported by ApplyVote.
const (
	VoteAdded    = "added"
	VoteSwitched = "switched"
	VoteRemoved  = "removed"
)

// VoteResult carries the committed outcome of a vote transition along
// with the counters as persisted in the same transaction.
type VoteResult struct {
	Action    string `json:"action"`
	VoteType  string `json:"vote_type,omitempty"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
}

type ProposalFilter struct {
	Status     string
	CategoryID string
	AuthorID   string
}

type ProposalRepository interface {
	Create(ctx context.Context, proposal *entity.Proposal) error
	GetByID(ctx context.Context, id string) (*entity.Proposal, error)
	Update(ctx context.Context, proposal *entity.Proposal) error
	List(ctx context.Context, tenantID string, filter ProposalFilter, limit, offset int) ([]*entity.Proposal, int64, error)

	// ApplyVote applies toggle semantics for (user, proposal) and updates
	// the proposal's counters in the same transaction: voting the same
	// type again removes the vote, a different type switches it, and no
	// prior vote inserts one.
	ApplyVote(ctx context.Context, proposalID, userID, voteType string) (*VoteResult, error)
	GetVote(ctx context.Context, proposalID, userID string) (*entity.ProposalVote, error)

	CreateComment(ctx context.Context, comment *entity.ProposalComment) error
	GetComment(ctx context.Context, proposalID, commentID string) (*entity.ProposalComment, error)
	ListComments(ctx context.Context, proposalID string, limit, offset int) ([]*entity.ProposalComment, int64, error)
	DeleteComment(ctx context.Context, proposalID, commentID string) error

	CreateCategory(ctx context.Context, category *entity.ProposalCategory) error
	GetCategory(ctx context.Context, id string) (*entity.ProposalCategory, error)
	ListCategories(ctx context.Context, tenantID string) ([]*entity.ProposalCategory, error)
	UpdateCategory(ctx context.Context, category *entity.ProposalCategory) error
	DeleteCategory(ctx context.Context, id string) error

	AppendStatusChange(ctx context.Context, change *entity.ProposalStatusChange) error
	ListStatusHistory(ctx context.Context, proposalID string) ([]*entity.ProposalStatusChange, error)
}
