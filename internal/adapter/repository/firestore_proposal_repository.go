package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/errors"
)

type firestoreProposalRepository struct {
	client *firestore.Client
}

func NewFirestoreProposalRepository(client *firestore.Client) repository.ProposalRepository {
	return &firestoreProposalRepository{
		client: client,
	}
}

// voteDocID derives the vote document id from the (proposal, user) pair
// so a second active vote for the pair cannot exist.
func voteDocID(proposalID, userID string) string {
	return fmt.Sprintf("%s_%s", proposalID, userID)
}

func (r *firestoreProposalRepository) Create(ctx context.Context, proposal *entity.Proposal) error {
	_, err := r.client.Collection("proposals").Doc(proposal.ID).Set(ctx, proposal)
	if err != nil {
		return errors.Internal("Failed to create proposal", err)
	}
	return nil
}

func (r *firestoreProposalRepository) GetByID(ctx context.Context, id string) (*entity.Proposal, error) {
	doc, err := r.client.Collection("proposals").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Proposal", err)
		}
		return nil, errors.Internal("Failed to get proposal", err)
	}

	var proposal entity.Proposal
	if err := doc.DataTo(&proposal); err != nil {
		return nil, errors.Internal("Failed to parse proposal data", err)
	}

	return &proposal, nil
}

func (r *firestoreProposalRepository) Update(ctx context.Context, proposal *entity.Proposal) error {
	proposal.UpdatedAt = time.Now()
	_, err := r.client.Collection("proposals").Doc(proposal.ID).Set(ctx, proposal)
	if err != nil {
		return errors.Internal("Failed to update proposal", err)
	}
	return nil
}

func (r *firestoreProposalRepository) List(ctx context.Context, tenantID string, filter repository.ProposalFilter, limit, offset int) ([]*entity.Proposal, int64, error) {
	query := r.client.Collection("proposals").Where("tenantId", "==", tenantID)

	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}
	if filter.CategoryID != "" {
		query = query.Where("categoryId", "==", filter.CategoryID)
	}
	if filter.AuthorID != "" {
		query = query.Where("authorId", "==", filter.AuthorID)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	proposals := make([]*entity.Proposal, 0)
	var total int64

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list proposals", err)
		}

		total++
		if total <= int64(offset) || len(proposals) >= limit {
			continue
		}

		var proposal entity.Proposal
		if err := doc.DataTo(&proposal); err != nil {
			return nil, 0, errors.Internal("Failed to parse proposal data", err)
		}
		proposals = append(proposals, &proposal)
	}

	return proposals, total, nil
}

// ApplyVote runs the toggle state machine: same type removes the vote,
// a different type switches it, no prior vote inserts one. The vote row
// and the proposal counters commit together or not at all.
func (r *firestoreProposalRepository) ApplyVote(ctx context.Context, proposalID, userID, voteType string) (*repository.VoteResult, error) {
	proposalRef := r.client.Collection("proposals").Doc(proposalID)
	voteRef := r.client.Collection("proposal_votes").Doc(voteDocID(proposalID, userID))

	var result repository.VoteResult

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		proposalDoc, err := tx.Get(proposalRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Proposal", err)
			}
			return err
		}

		var proposal entity.Proposal
		if err := proposalDoc.DataTo(&proposal); err != nil {
			return err
		}

		if !proposal.IsOpen() {
			return errors.Closed("PROPOSAL_CLOSED", "This proposal no longer accepts votes")
		}

		var prior *entity.ProposalVote
		voteDoc, err := tx.Get(voteRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil {
			var v entity.ProposalVote
			if err := voteDoc.DataTo(&v); err != nil {
				return err
			}
			prior = &v
		}

		switch {
		case prior == nil:
			result.Action = repository.VoteAdded
			result.VoteType = voteType
			if voteType == entity.VoteUp {
				proposal.Upvotes++
			} else {
				proposal.Downvotes++
			}
			vote := entity.ProposalVote{
				ID:         voteRef.ID,
				ProposalID: proposalID,
				UserID:     userID,
				VoteType:   voteType,
				CreatedAt:  time.Now(),
			}
			if err := tx.Set(voteRef, &vote); err != nil {
				return err
			}

		case prior.VoteType == voteType:
			result.Action = repository.VoteRemoved
			if voteType == entity.VoteUp {
				proposal.Upvotes--
			} else {
				proposal.Downvotes--
			}
			if err := tx.Delete(voteRef); err != nil {
				return err
			}

		default:
			result.Action = repository.VoteSwitched
			result.VoteType = voteType
			if voteType == entity.VoteUp {
				proposal.Upvotes++
				proposal.Downvotes--
			} else {
				proposal.Downvotes++
				proposal.Upvotes--
			}
			if err := tx.Update(voteRef, []firestore.Update{
				{Path: "voteType", Value: voteType},
				{Path: "createdAt", Value: time.Now()},
			}); err != nil {
				return err
			}
		}

		proposal.UpdatedAt = time.Now()
		if err := tx.Update(proposalRef, []firestore.Update{
			{Path: "upvotes", Value: proposal.Upvotes},
			{Path: "downvotes", Value: proposal.Downvotes},
			{Path: "updatedAt", Value: proposal.UpdatedAt},
		}); err != nil {
			return err
		}

		result.Upvotes = proposal.Upvotes
		result.Downvotes = proposal.Downvotes
		return nil
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to apply vote", err)
	}

	return &result, nil
}

func (r *firestoreProposalRepository) GetVote(ctx context.Context, proposalID, userID string) (*entity.ProposalVote, error) {
	doc, err := r.client.Collection("proposal_votes").Doc(voteDocID(proposalID, userID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Vote", err)
		}
		return nil, errors.Internal("Failed to get vote", err)
	}

	var vote entity.ProposalVote
	if err := doc.DataTo(&vote); err != nil {
		return nil, errors.Internal("Failed to parse vote data", err)
	}

	return &vote, nil
}

func (r *firestoreProposalRepository) CreateComment(ctx context.Context, comment *entity.ProposalComment) error {
	_, err := r.client.Collection("proposals").Doc(comment.ProposalID).
		Collection("comments").Doc(comment.ID).Set(ctx, comment)
	if err != nil {
		return errors.Internal("Failed to create comment", err)
	}
	return nil
}

func (r *firestoreProposalRepository) GetComment(ctx context.Context, proposalID, commentID string) (*entity.ProposalComment, error) {
	doc, err := r.client.Collection("proposals").Doc(proposalID).
		Collection("comments").Doc(commentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Comment", err)
		}
		return nil, errors.Internal("Failed to get comment", err)
	}

	var comment entity.ProposalComment
	if err := doc.DataTo(&comment); err != nil {
		return nil, errors.Internal("Failed to parse comment data", err)
	}

	return &comment, nil
}

func (r *firestoreProposalRepository) ListComments(ctx context.Context, proposalID string, limit, offset int) ([]*entity.ProposalComment, int64, error) {
	query := r.client.Collection("proposals").Doc(proposalID).
		Collection("comments").
		OrderBy("createdAt", firestore.Asc)

	comments := make([]*entity.ProposalComment, 0)
	var total int64

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list comments", err)
		}

		total++
		if total <= int64(offset) || len(comments) >= limit {
			continue
		}

		var comment entity.ProposalComment
		if err := doc.DataTo(&comment); err != nil {
			return nil, 0, errors.Internal("Failed to parse comment data", err)
		}
		comments = append(comments, &comment)
	}

	return comments, total, nil
}

func (r *firestoreProposalRepository) DeleteComment(ctx context.Context, proposalID, commentID string) error {
	_, err := r.client.Collection("proposals").Doc(proposalID).
		Collection("comments").Doc(commentID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete comment", err)
	}
	return nil
}

func (r *firestoreProposalRepository) CreateCategory(ctx context.Context, category *entity.ProposalCategory) error {
	_, err := r.client.Collection("proposal_categories").Doc(category.ID).Set(ctx, category)
	if err != nil {
		return errors.Internal("Failed to create category", err)
	}
	return nil
}

func (r *firestoreProposalRepository) GetCategory(ctx context.Context, id string) (*entity.ProposalCategory, error) {
	doc, err := r.client.Collection("proposal_categories").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Category", err)
		}
		return nil, errors.Internal("Failed to get category", err)
	}

	var category entity.ProposalCategory
	if err := doc.DataTo(&category); err != nil {
		return nil, errors.Internal("Failed to parse category data", err)
	}

	return &category, nil
}

func (r *firestoreProposalRepository) ListCategories(ctx context.Context, tenantID string) ([]*entity.ProposalCategory, error) {
	query := r.client.Collection("proposal_categories").
		Where("tenantId", "==", tenantID).
		OrderBy("name", firestore.Asc)

	categories := make([]*entity.ProposalCategory, 0)

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list categories", err)
		}

		var category entity.ProposalCategory
		if err := doc.DataTo(&category); err != nil {
			return nil, errors.Internal("Failed to parse category data", err)
		}
		categories = append(categories, &category)
	}

	return categories, nil
}

func (r *firestoreProposalRepository) UpdateCategory(ctx context.Context, category *entity.ProposalCategory) error {
	_, err := r.client.Collection("proposal_categories").Doc(category.ID).Set(ctx, category)
	if err != nil {
		return errors.Internal("Failed to update category", err)
	}
	return nil
}

func (r *firestoreProposalRepository) DeleteCategory(ctx context.Context, id string) error {
	_, err := r.client.Collection("proposal_categories").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete category", err)
	}
	return nil
}

func (r *firestoreProposalRepository) AppendStatusChange(ctx context.Context, change *entity.ProposalStatusChange) error {
	_, err := r.client.Collection("proposals").Doc(change.ProposalID).
		Collection("status_history").Doc(change.ID).Set(ctx, change)
	if err != nil {
		return errors.Internal("Failed to append status change", err)
	}
	return nil
}

func (r *firestoreProposalRepository) ListStatusHistory(ctx context.Context, proposalID string) ([]*entity.ProposalStatusChange, error) {
	query := r.client.Collection("proposals").Doc(proposalID).
		Collection("status_history").
		OrderBy("createdAt", firestore.Asc)

	changes := make([]*entity.ProposalStatusChange, 0)

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list status history", err)
		}

		var change entity.ProposalStatusChange
		if err := doc.DataTo(&change); err != nil {
			return nil, errors.Internal("Failed to parse status change data", err)
		}
		changes = append(changes, &change)
	}

	return changes, nil
}
