package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/internal/infrastructure/realtime"
	"pratorinaldo/pkg/errors"
)

// In-memory fakes mirroring the Firestore repositories' transactional
// behavior, shared by the usecase tests.

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) ListByVerificationStatus(ctx context.Context, tenantID, verificationStatus string, limit, offset int) ([]*entity.User, int64, error) {
	out := make([]*entity.User, 0)
	for _, user := range r.users {
		if user.TenantID == tenantID && user.VerificationStatus == verificationStatus {
			out = append(out, user)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ListAdmins(ctx context.Context, tenantID string) ([]*entity.User, error) {
	out := make([]*entity.User, 0)
	for _, user := range r.users {
		if user.TenantID == tenantID && user.IsAdmin() {
			out = append(out, user)
		}
	}
	return out, nil
}

type fakeProposalRepo struct {
	proposals map[string]*entity.Proposal
	votes     map[string]*entity.ProposalVote
	history   []*entity.ProposalStatusChange
}

func newFakeProposalRepo(proposals ...*entity.Proposal) *fakeProposalRepo {
	repo := &fakeProposalRepo{
		proposals: make(map[string]*entity.Proposal),
		votes:     make(map[string]*entity.ProposalVote),
	}
	for _, p := range proposals {
		repo.proposals[p.ID] = p
	}
	return repo
}

func (r *fakeProposalRepo) Create(ctx context.Context, proposal *entity.Proposal) error {
	r.proposals[proposal.ID] = proposal
	return nil
}

func (r *fakeProposalRepo) GetByID(ctx context.Context, id string) (*entity.Proposal, error) {
	proposal, ok := r.proposals[id]
	if !ok {
		return nil, errors.NotFound("Proposal", nil)
	}
	return proposal, nil
}

func (r *fakeProposalRepo) Update(ctx context.Context, proposal *entity.Proposal) error {
	r.proposals[proposal.ID] = proposal
	return nil
}

func (r *fakeProposalRepo) List(ctx context.Context, tenantID string, filter repository.ProposalFilter, limit, offset int) ([]*entity.Proposal, int64, error) {
	out := make([]*entity.Proposal, 0)
	for _, p := range r.proposals {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *fakeProposalRepo) ApplyVote(ctx context.Context, proposalID, userID, voteType string) (*repository.VoteResult, error) {
	proposal, ok := r.proposals[proposalID]
	if !ok {
		return nil, errors.NotFound("Proposal", nil)
	}
	if !proposal.IsOpen() {
		return nil, errors.Closed("PROPOSAL_CLOSED", "This proposal no longer accepts votes")
	}

	key := proposalID + "_" + userID
	prior := r.votes[key]
	result := &repository.VoteResult{}

	switch {
	case prior == nil:
		result.Action = repository.VoteAdded
		result.VoteType = voteType
		if voteType == entity.VoteUp {
			proposal.Upvotes++
		} else {
			proposal.Downvotes++
		}
		r.votes[key] = &entity.ProposalVote{
			ID: key, ProposalID: proposalID, UserID: userID, VoteType: voteType, CreatedAt: time.Now(),
		}
	case prior.VoteType == voteType:
		result.Action = repository.VoteRemoved
		if voteType == entity.VoteUp {
			proposal.Upvotes--
		} else {
			proposal.Downvotes--
		}
		delete(r.votes, key)
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
		prior.VoteType = voteType
	}

	result.Upvotes = proposal.Upvotes
	result.Downvotes = proposal.Downvotes
	return result, nil
}

func (r *fakeProposalRepo) GetVote(ctx context.Context, proposalID, userID string) (*entity.ProposalVote, error) {
	vote, ok := r.votes[proposalID+"_"+userID]
	if !ok {
		return nil, errors.NotFound("Vote", nil)
	}
	return vote, nil
}

func (r *fakeProposalRepo) CreateComment(ctx context.Context, comment *entity.ProposalComment) error {
	return nil
}

func (r *fakeProposalRepo) GetComment(ctx context.Context, proposalID, commentID string) (*entity.ProposalComment, error) {
	return nil, errors.NotFound("Comment", nil)
}

func (r *fakeProposalRepo) ListComments(ctx context.Context, proposalID string, limit, offset int) ([]*entity.ProposalComment, int64, error) {
	return nil, 0, nil
}

func (r *fakeProposalRepo) DeleteComment(ctx context.Context, proposalID, commentID string) error {
	return nil
}

func (r *fakeProposalRepo) CreateCategory(ctx context.Context, category *entity.ProposalCategory) error {
	return nil
}

func (r *fakeProposalRepo) GetCategory(ctx context.Context, id string) (*entity.ProposalCategory, error) {
	return &entity.ProposalCategory{ID: id}, nil
}

func (r *fakeProposalRepo) ListCategories(ctx context.Context, tenantID string) ([]*entity.ProposalCategory, error) {
	return nil, nil
}

func (r *fakeProposalRepo) UpdateCategory(ctx context.Context, category *entity.ProposalCategory) error {
	return nil
}

func (r *fakeProposalRepo) DeleteCategory(ctx context.Context, id string) error {
	return nil
}

func (r *fakeProposalRepo) AppendStatusChange(ctx context.Context, change *entity.ProposalStatusChange) error {
	r.history = append(r.history, change)
	return nil
}

func (r *fakeProposalRepo) ListStatusHistory(ctx context.Context, proposalID string) ([]*entity.ProposalStatusChange, error) {
	return r.history, nil
}

type fakeEventRepo struct {
	events map[string]*entity.Event
	rsvps  map[string]*entity.RSVP
}

func newFakeEventRepo(events ...*entity.Event) *fakeEventRepo {
	repo := &fakeEventRepo{
		events: make(map[string]*entity.Event),
		rsvps:  make(map[string]*entity.RSVP),
	}
	for _, e := range events {
		repo.events[e.ID] = e
	}
	return repo
}

func (r *fakeEventRepo) Create(ctx context.Context, event *entity.Event) error {
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, errors.NotFound("Event", nil)
	}
	return event, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *entity.Event) error {
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) SoftDelete(ctx context.Context, id string) error {
	if event, ok := r.events[id]; ok {
		event.DeletedAt = time.Now()
	}
	return nil
}

func (r *fakeEventRepo) ListPublished(ctx context.Context, tenantID string, includePrivate bool, limit, offset int) ([]*entity.Event, int64, error) {
	out := make([]*entity.Event, 0)
	for _, e := range r.events {
		if e.TenantID == tenantID && e.Status == entity.EventPublished && e.DeletedAt.IsZero() {
			if e.IsPrivate && !includePrivate {
				continue
			}
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) UpsertRSVP(ctx context.Context, event *entity.Event, rsvp *entity.RSVP) (string, error) {
	current, ok := r.events[event.ID]
	if !ok {
		return "", errors.NotFound("Event", nil)
	}
	if !current.IsOpen() {
		return "", errors.Closed("EVENT_CLOSED", "This event no longer accepts RSVPs")
	}

	key := event.ID + "_" + rsvp.UserID
	prior := ""
	if existing, ok := r.rsvps[key]; ok {
		prior = existing.Status
	}
	if prior == rsvp.Status {
		return prior, nil
	}

	enteringGoing := rsvp.Status == entity.RSVPGoing
	leavingGoing := prior == entity.RSVPGoing

	if enteringGoing && current.MaxAttendees > 0 && current.GoingCount >= current.MaxAttendees {
		return prior, errors.CapacityFull("This event has reached its maximum attendees")
	}

	if enteringGoing {
		current.GoingCount++
	}
	if leavingGoing {
		current.GoingCount--
	}

	rsvp.ID = key
	r.rsvps[key] = rsvp
	return prior, nil
}

func (r *fakeEventRepo) GetRSVP(ctx context.Context, eventID, userID string) (*entity.RSVP, error) {
	rsvp, ok := r.rsvps[eventID+"_"+userID]
	if !ok {
		return nil, errors.NotFound("RSVP", nil)
	}
	return rsvp, nil
}

func (r *fakeEventRepo) CountGoing(ctx context.Context, eventID string) (int, error) {
	count := 0
	for _, rsvp := range r.rsvps {
		if rsvp.EventID == eventID && rsvp.Status == entity.RSVPGoing {
			count++
		}
	}
	return count, nil
}

func (r *fakeEventRepo) ListRSVPs(ctx context.Context, eventID string) ([]*entity.RSVP, error) {
	out := make([]*entity.RSVP, 0)
	for _, rsvp := range r.rsvps {
		if rsvp.EventID == eventID {
			out = append(out, rsvp)
		}
	}
	return out, nil
}

type fakeConversationRepo struct {
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
}

func newFakeConversationRepo(conversations ...*entity.Conversation) *fakeConversationRepo {
	repo := &fakeConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
	}
	for _, c := range conversations {
		repo.conversations[c.ID] = c
	}
	return repo
}

func (r *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.conversations[conversation.ID] = conversation
	return nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	conversation, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return conversation, nil
}

func (r *fakeConversationRepo) GetByItemAndBuyer(ctx context.Context, itemID, buyerID string) (*entity.Conversation, error) {
	for _, c := range r.conversations {
		if c.MarketplaceItemID == itemID && c.BuyerID == buyerID {
			return c, nil
		}
	}
	return nil, errors.NotFound("Conversation", nil)
}

func (r *fakeConversationRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	out := make([]*entity.Conversation, 0)
	for _, c := range r.conversations {
		if c.IsParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeConversationRepo) UpdateStatus(ctx context.Context, id, conversationStatus string) error {
	conversation, ok := r.conversations[id]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conversation.Status = conversationStatus
	return nil
}

func (r *fakeConversationRepo) AppendMessage(ctx context.Context, message *entity.Message) (*entity.Conversation, error) {
	conversation, ok := r.conversations[message.ConversationID]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	if conversation.Status == entity.ConversationClosed {
		return nil, errors.Closed("CONVERSATION_CLOSED", "This conversation has been closed by the seller")
	}
	if !conversation.IsParticipant(message.SenderID) {
		return nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	preview := message.Content
	if len([]rune(preview)) > entity.MessagePreviewLength {
		preview = string([]rune(preview)[:entity.MessagePreviewLength])
	}
	conversation.LastMessageAt = message.CreatedAt
	conversation.LastMessagePreview = preview
	if message.SenderID == conversation.BuyerID {
		conversation.UnreadCountSeller++
	} else {
		conversation.UnreadCountBuyer++
	}

	r.messages[conversation.ID] = append(r.messages[conversation.ID], message)
	return conversation, nil
}

func (r *fakeConversationRepo) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	msgs := r.messages[conversationID]
	return msgs, int64(len(msgs)), nil
}

func (r *fakeConversationRepo) GetMessageByID(ctx context.Context, conversationID, messageID string) (*entity.Message, error) {
	for _, m := range r.messages[conversationID] {
		if m.ID == messageID {
			return m, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *fakeConversationRepo) MarkRead(ctx context.Context, conversationID, readerID string) error {
	conversation, ok := r.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	for _, m := range r.messages[conversationID] {
		if m.SenderID != readerID {
			m.IsRead = true
		}
	}
	if readerID == conversation.BuyerID {
		conversation.UnreadCountBuyer = 0
	} else {
		conversation.UnreadCountSeller = 0
	}
	return nil
}

type fakeMarketplaceRepo struct {
	items map[string]*entity.MarketplaceItem
}

func newFakeMarketplaceRepo(items ...*entity.MarketplaceItem) *fakeMarketplaceRepo {
	repo := &fakeMarketplaceRepo{items: make(map[string]*entity.MarketplaceItem)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakeMarketplaceRepo) Create(ctx context.Context, item *entity.MarketplaceItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeMarketplaceRepo) GetByID(ctx context.Context, id string) (*entity.MarketplaceItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Marketplace item", nil)
	}
	return item, nil
}

func (r *fakeMarketplaceRepo) Update(ctx context.Context, item *entity.MarketplaceItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeMarketplaceRepo) ListApproved(ctx context.Context, tenantID string, limit, offset int) ([]*entity.MarketplaceItem, int64, error) {
	out := make([]*entity.MarketplaceItem, 0)
	for _, item := range r.items {
		if item.TenantID == tenantID && item.Status == entity.ItemApproved && item.DeletedAt.IsZero() {
			out = append(out, item)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeMarketplaceRepo) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.MarketplaceItem, int64, error) {
	out := make([]*entity.MarketplaceItem, 0)
	for _, item := range r.items {
		if item.SellerID == sellerID {
			out = append(out, item)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeMarketplaceRepo) MarkSold(ctx context.Context, id string) error {
	item, ok := r.items[id]
	if !ok {
		return errors.NotFound("Marketplace item", nil)
	}
	item.Status = entity.ItemSold
	item.SoldAt = time.Now()
	return nil
}

func (r *fakeMarketplaceRepo) SoftDelete(ctx context.Context, id string) error {
	item, ok := r.items[id]
	if !ok {
		return errors.NotFound("Marketplace item", nil)
	}
	item.DeletedAt = time.Now()
	return nil
}

type fakeServiceProfileRepo struct {
	profiles map[string]*entity.ServiceProfile
}

func newFakeServiceProfileRepo(profiles ...*entity.ServiceProfile) *fakeServiceProfileRepo {
	repo := &fakeServiceProfileRepo{profiles: make(map[string]*entity.ServiceProfile)}
	for _, p := range profiles {
		repo.profiles[p.ID] = p
	}
	return repo
}

func (r *fakeServiceProfileRepo) Create(ctx context.Context, profile *entity.ServiceProfile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeServiceProfileRepo) GetByID(ctx context.Context, id string) (*entity.ServiceProfile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, errors.NotFound("Service profile", nil)
	}
	return profile, nil
}

func (r *fakeServiceProfileRepo) GetByUser(ctx context.Context, userID string) (*entity.ServiceProfile, error) {
	for _, profile := range r.profiles {
		if profile.UserID == userID {
			return profile, nil
		}
	}
	return nil, errors.NotFound("Service profile", nil)
}

func (r *fakeServiceProfileRepo) Update(ctx context.Context, profile *entity.ServiceProfile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeServiceProfileRepo) ListApproved(ctx context.Context, tenantID string, filter repository.ServiceProfileFilter, limit, offset int) ([]*entity.ServiceProfile, int64, error) {
	out := make([]*entity.ServiceProfile, 0)
	for _, profile := range r.profiles {
		if profile.TenantID != tenantID || profile.Status != entity.ProfileApproved {
			continue
		}
		if filter.Category != "" && profile.Category != filter.Category {
			continue
		}
		if filter.ProfileType != "" && profile.ProfileType != filter.ProfileType {
			continue
		}
		out = append(out, profile)
	}
	return out, int64(len(out)), nil
}

func (r *fakeServiceProfileRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.profiles[id]; !ok {
		return errors.NotFound("Service profile", nil)
	}
	delete(r.profiles, id)
	return nil
}

// fakeModerationRepo shares the content fakes so Decide can mirror the
// production both-writes-in-one-transaction behavior.
type fakeModerationRepo struct {
	queue       map[string]*entity.ModerationItem
	actions     []*entity.ModerationAction
	marketplace *fakeMarketplaceRepo
	profiles    *fakeServiceProfileRepo
	articles    *fakeArticleRepo
}

func newFakeModerationRepo(marketplace *fakeMarketplaceRepo, profiles *fakeServiceProfileRepo, articles *fakeArticleRepo) *fakeModerationRepo {
	return &fakeModerationRepo{
		queue:       make(map[string]*entity.ModerationItem),
		marketplace: marketplace,
		profiles:    profiles,
		articles:    articles,
	}
}

func (r *fakeModerationRepo) Enqueue(ctx context.Context, item *entity.ModerationItem) error {
	r.queue[item.ID] = item
	return nil
}

func (r *fakeModerationRepo) GetByID(ctx context.Context, id string) (*entity.ModerationItem, error) {
	item, ok := r.queue[id]
	if !ok {
		return nil, errors.NotFound("Moderation item", nil)
	}
	return item, nil
}

func (r *fakeModerationRepo) List(ctx context.Context, tenantID string, filter repository.ModerationFilter, limit, offset int) ([]*entity.ModerationItem, int64, error) {
	out := make([]*entity.ModerationItem, 0)
	for _, item := range r.queue {
		if item.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.ItemType != "" && item.ItemType != filter.ItemType {
			continue
		}
		out = append(out, item)
	}
	return out, int64(len(out)), nil
}

func (r *fakeModerationRepo) ListByAssignee(ctx context.Context, userID string) ([]*entity.ModerationItem, error) {
	out := make([]*entity.ModerationItem, 0)
	for _, item := range r.queue {
		if item.AssignedTo == userID && item.Status == entity.ModerationPending {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeModerationRepo) Assign(ctx context.Context, id, userID string) error {
	item, ok := r.queue[id]
	if !ok {
		return errors.NotFound("Moderation item", nil)
	}
	item.AssignedTo = userID
	return nil
}

func (r *fakeModerationRepo) Decide(ctx context.Context, id, decision, moderatorID, note string) (*entity.ModerationItem, error) {
	item, ok := r.queue[id]
	if !ok {
		return nil, errors.NotFound("Moderation item", nil)
	}
	if item.Status != entity.ModerationPending {
		return nil, errors.Conflict("Moderation item has already been decided")
	}

	switch item.ItemType {
	case entity.ModerationTypeMarketplace:
		target, ok := r.marketplace.items[item.ItemID]
		if !ok {
			return nil, errors.NotFound("Moderated content", nil)
		}
		target.Status = decision
	case entity.ModerationTypeServiceProfile:
		target, ok := r.profiles.profiles[item.ItemID]
		if !ok {
			return nil, errors.NotFound("Moderated content", nil)
		}
		target.Status = decision
	case entity.ModerationTypeArticle:
		target, ok := r.articles.articles[item.ItemID]
		if !ok {
			return nil, errors.NotFound("Moderated content", nil)
		}
		if decision == entity.ModerationApproved {
			target.Status = entity.ArticlePublished
		} else {
			target.Status = entity.ArticleArchived
		}
	default:
		return nil, errors.BadRequest("Unknown moderation item type", nil)
	}

	item.Status = decision
	item.ModeratedBy = moderatorID
	item.Note = note
	item.ModeratedAt = time.Now()
	return item, nil
}

func (r *fakeModerationRepo) AppendAction(ctx context.Context, action *entity.ModerationAction) error {
	r.actions = append(r.actions, action)
	return nil
}

type fakeArticleRepo struct {
	articles map[string]*entity.Article
}

func newFakeArticleRepo(articles ...*entity.Article) *fakeArticleRepo {
	repo := &fakeArticleRepo{articles: make(map[string]*entity.Article)}
	for _, a := range articles {
		repo.articles[a.ID] = a
	}
	return repo
}

func (r *fakeArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	r.articles[article.ID] = article
	return nil
}

func (r *fakeArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	article, ok := r.articles[id]
	if !ok {
		return nil, errors.NotFound("Article", nil)
	}
	return article, nil
}

func (r *fakeArticleRepo) GetBySlug(ctx context.Context, tenantID, slug string) (*entity.Article, error) {
	for _, a := range r.articles {
		if a.TenantID == tenantID && a.Slug == slug {
			return a, nil
		}
	}
	return nil, errors.NotFound("Article", nil)
}

func (r *fakeArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	r.articles[article.ID] = article
	return nil
}

func (r *fakeArticleRepo) ListPublished(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Article, int64, error) {
	out := make([]*entity.Article, 0)
	for _, a := range r.articles {
		if a.TenantID == tenantID && a.Status == entity.ArticlePublished {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

type fakeNotificationRepo struct {
	notifications map[string]*entity.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[string]*entity.Notification)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.notifications[notification.ID] = notification
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	notification, ok := r.notifications[id]
	if !ok {
		return nil, errors.NotFound("Notification", nil)
	}
	return notification, nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	out := make([]*entity.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && (n.Status == entity.NotificationUnread || n.Status == entity.NotificationActionPending) {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	if n, ok := r.notifications[id]; ok {
		n.Status = entity.NotificationRead
		n.ReadAt = time.Now()
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range r.notifications {
		if n.UserID == userID && n.Status == entity.NotificationUnread {
			n.Status = entity.NotificationRead
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkActionCompleted(ctx context.Context, id string) error {
	if n, ok := r.notifications[id]; ok {
		n.Status = entity.NotificationActionCompleted
	}
	return nil
}

func (r *fakeNotificationRepo) MarkActionCompletedByRelated(ctx context.Context, relatedID string) error {
	for _, n := range r.notifications {
		if n.RelatedID == relatedID && n.Status == entity.NotificationActionPending {
			n.Status = entity.NotificationActionCompleted
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	deleted := 0
	for id, n := range r.notifications {
		if n.CreatedAt.Before(cutoff) && n.Terminal() {
			delete(r.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeForumRepo struct {
	categories map[string]*entity.ForumCategory
	threads    map[string]*entity.ForumThread
	posts      map[string][]*entity.ForumPost
}

func newFakeForumRepo() *fakeForumRepo {
	return &fakeForumRepo{
		categories: make(map[string]*entity.ForumCategory),
		threads:    make(map[string]*entity.ForumThread),
		posts:      make(map[string][]*entity.ForumPost),
	}
}

func (r *fakeForumRepo) CreateCategory(ctx context.Context, category *entity.ForumCategory) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeForumRepo) GetCategory(ctx context.Context, id string) (*entity.ForumCategory, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, errors.NotFound("Forum category", nil)
	}
	return category, nil
}

func (r *fakeForumRepo) ListCategories(ctx context.Context, tenantID string) ([]*entity.ForumCategory, error) {
	out := make([]*entity.ForumCategory, 0)
	for _, c := range r.categories {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeForumRepo) CreateThread(ctx context.Context, thread *entity.ForumThread) error {
	r.threads[thread.ID] = thread
	return nil
}

func (r *fakeForumRepo) GetThread(ctx context.Context, id string) (*entity.ForumThread, error) {
	thread, ok := r.threads[id]
	if !ok {
		return nil, errors.NotFound("Thread", nil)
	}
	return thread, nil
}

func (r *fakeForumRepo) UpdateThread(ctx context.Context, thread *entity.ForumThread) error {
	r.threads[thread.ID] = thread
	return nil
}

func (r *fakeForumRepo) ListThreads(ctx context.Context, categoryID string, limit, offset int) ([]*entity.ForumThread, int64, error) {
	out := make([]*entity.ForumThread, 0)
	for _, t := range r.threads {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	total := int64(len(out))
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeForumRepo) IncrementThreadViews(ctx context.Context, id string) error {
	if thread, ok := r.threads[id]; ok {
		thread.ViewCount++
	}
	return nil
}

func (r *fakeForumRepo) CreatePost(ctx context.Context, post *entity.ForumPost) error {
	thread, ok := r.threads[post.ThreadID]
	if !ok {
		return errors.NotFound("Thread", nil)
	}
	if thread.Locked {
		return errors.Closed("THREAD_LOCKED", "This thread is locked")
	}
	thread.ReplyCount++
	thread.LastActivity = post.CreatedAt
	r.posts[post.ThreadID] = append(r.posts[post.ThreadID], post)
	return nil
}

func (r *fakeForumRepo) GetPost(ctx context.Context, threadID, postID string) (*entity.ForumPost, error) {
	for _, p := range r.posts[threadID] {
		if p.ID == postID {
			return p, nil
		}
	}
	return nil, errors.NotFound("Post", nil)
}

func (r *fakeForumRepo) ListPosts(ctx context.Context, threadID string, limit, offset int) ([]*entity.ForumPost, int64, error) {
	out := make([]*entity.ForumPost, 0)
	for _, p := range r.posts[threadID] {
		if p.DeletedAt.IsZero() {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeForumRepo) UpdatePost(ctx context.Context, post *entity.ForumPost) error {
	post.Edited = true
	return nil
}

func (r *fakeForumRepo) SoftDeletePost(ctx context.Context, threadID, postID string) error {
	for _, p := range r.posts[threadID] {
		if p.ID == postID {
			p.DeletedAt = time.Now()
			return nil
		}
	}
	return errors.NotFound("Post", nil)
}

// recordingRealtime captures everything published to the hub.
type recordingRealtime struct {
	published []publishedEvent
	replaced  map[string][]realtime.Item
	direct    map[string][][]byte
}

type publishedEvent struct {
	room string
	ev   realtime.ChangeEvent
}

func newRecordingRealtime() *recordingRealtime {
	return &recordingRealtime{
		replaced: make(map[string][]realtime.Item),
		direct:   make(map[string][][]byte),
	}
}

func (r *recordingRealtime) Publish(room string, ev realtime.ChangeEvent) {
	r.published = append(r.published, publishedEvent{room: room, ev: ev})
}

func (r *recordingRealtime) ReplaceRoom(room string, items []realtime.Item) {
	r.replaced[room] = items
}

func (r *recordingRealtime) SendToUser(userID string, payload []byte) {
	r.direct[userID] = append(r.direct[userID], payload)
}

// Shared test fixtures.

func verifiedUser(id, tenantID string) *entity.User {
	return &entity.User{
		ID:                 id,
		TenantID:           tenantID,
		Email:              fmt.Sprintf("%s@example.org", id),
		Name:               id,
		Role:               entity.RoleUser,
		Status:             "active",
		VerificationStatus: entity.VerificationApproved,
		CreatedAt:          time.Now(),
	}
}

func adminUser(id, tenantID string) *entity.User {
	user := verifiedUser(id, tenantID)
	user.Role = entity.RoleAdmin
	return user
}
