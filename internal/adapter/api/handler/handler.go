package handler

import (
	"pratorinaldo/internal/usecase"
)

// defaultTenant is the neighborhood served to anonymous viewers.
var defaultTenant string

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	feedHandler         *FeedHandler
	articleHandler      *ArticleHandler
	forumHandler        *ForumHandler
	marketplaceHandler  *MarketplaceHandler
	profileHandler      *ServiceProfileHandler
	conversationHandler *ConversationHandler
	proposalHandler     *ProposalHandler
	eventHandler        *EventHandler
	moderationHandler   *ModerationHandler
	notificationHandler *NotificationHandler
)

func Setup(
	tenant string,
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	feedUseCase *usecase.FeedUseCase,
	articleUseCase *usecase.ArticleUseCase,
	forumUseCase *usecase.ForumUseCase,
	marketplaceUseCase *usecase.MarketplaceUseCase,
	profileUseCase *usecase.ServiceProfileUseCase,
	conversationUseCase *usecase.ConversationUseCase,
	proposalUseCase *usecase.ProposalUseCase,
	eventUseCase *usecase.EventUseCase,
	moderationUseCase *usecase.ModerationUseCase,
	notificationUseCase *usecase.NotificationUseCase,
) {
	defaultTenant = tenant
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	feedHandler = NewFeedHandler(feedUseCase, userUseCase)
	articleHandler = NewArticleHandler(articleUseCase)
	forumHandler = NewForumHandler(forumUseCase)
	marketplaceHandler = NewMarketplaceHandler(marketplaceUseCase)
	profileHandler = NewServiceProfileHandler(profileUseCase)
	conversationHandler = NewConversationHandler(conversationUseCase)
	proposalHandler = NewProposalHandler(proposalUseCase)
	eventHandler = NewEventHandler(eventUseCase, userUseCase)
	moderationHandler = NewModerationHandler(moderationUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
}

func GetAuthHandler() *AuthHandler { return authHandler }

func GetUserHandler() *UserHandler { return userHandler }

func GetFeedHandler() *FeedHandler { return feedHandler }

func GetArticleHandler() *ArticleHandler { return articleHandler }

func GetForumHandler() *ForumHandler { return forumHandler }

func GetMarketplaceHandler() *MarketplaceHandler { return marketplaceHandler }

func GetServiceProfileHandler() *ServiceProfileHandler { return profileHandler }

func GetConversationHandler() *ConversationHandler { return conversationHandler }

func GetProposalHandler() *ProposalHandler { return proposalHandler }

func GetEventHandler() *EventHandler { return eventHandler }

func GetModerationHandler() *ModerationHandler { return moderationHandler }

func GetNotificationHandler() *NotificationHandler { return notificationHandler }
