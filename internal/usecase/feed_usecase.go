package usecase

import (
	"context"
	"sort"
	"time"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/pkg/logger"
)

// Feed source kinds.
const (
	FeedArticle     = "article"
	FeedEvent       = "event"
	FeedMarketplace = "marketplace"
	FeedProposal    = "proposal"
)

// FeedItem is one entry of the aggregated home feed.
type FeedItem struct {
	Kind      string      `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

type FeedUseCase struct {
	articleRepo     repository.ArticleRepository
	eventRepo       repository.EventRepository
	marketplaceRepo repository.MarketplaceRepository
	proposalRepo    repository.ProposalRepository
}

func NewFeedUseCase(
	articleRepo repository.ArticleRepository,
	eventRepo repository.EventRepository,
	marketplaceRepo repository.MarketplaceRepository,
	proposalRepo repository.ProposalRepository,
) *FeedUseCase {
	return &FeedUseCase{
		articleRepo:     articleRepo,
		eventRepo:       eventRepo,
		marketplaceRepo: marketplaceRepo,
		proposalRepo:    proposalRepo,
	}
}

// Build aggregates the tenant's recent public content into one
// reverse-chronological feed. A failing source is skipped, not fatal:
// the feed degrades instead of going blank.
func (uc *FeedUseCase) Build(ctx context.Context, tenantID string, viewerVerified bool, limit int) ([]*FeedItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	items := make([]*FeedItem, 0, limit*2)

	articles, _, err := uc.articleRepo.ListPublished(ctx, tenantID, limit, 0)
	if err != nil {
		logger.Warn("Feed: articles unavailable: %v", err)
	}
	for _, article := range articles {
		items = append(items, &FeedItem{
			Kind:      FeedArticle,
			Timestamp: article.PublishedAt,
			Payload:   article,
		})
	}

	events, _, err := uc.eventRepo.ListPublished(ctx, tenantID, viewerVerified, limit, 0)
	if err != nil {
		logger.Warn("Feed: events unavailable: %v", err)
	}
	for _, event := range events {
		items = append(items, &FeedItem{
			Kind:      FeedEvent,
			Timestamp: event.CreatedAt,
			Payload:   event,
		})
	}

	listings, _, err := uc.marketplaceRepo.ListApproved(ctx, tenantID, limit, 0)
	if err != nil {
		logger.Warn("Feed: marketplace unavailable: %v", err)
	}
	for _, listing := range listings {
		items = append(items, &FeedItem{
			Kind:      FeedMarketplace,
			Timestamp: listing.CreatedAt,
			Payload:   listing,
		})
	}

	proposals, _, err := uc.proposalRepo.List(ctx, tenantID, repository.ProposalFilter{}, limit, 0)
	if err != nil {
		logger.Warn("Feed: proposals unavailable: %v", err)
	}
	for _, proposal := range proposals {
		if proposal.Status == entity.ProposalRejected {
			continue
		}
		items = append(items, &FeedItem{
			Kind:      FeedProposal,
			Timestamp: proposal.CreatedAt,
			Payload:   proposal,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	if len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}
