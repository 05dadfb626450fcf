package router

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	SetupHealthRouter(e)
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware, roleMiddleware)
	SetupFeedRouter(e, authMiddleware)
	SetupArticleRouter(e, authMiddleware)
	SetupForumRouter(e, authMiddleware, roleMiddleware)
	SetupMarketplaceRouter(e, authMiddleware)
	SetupServiceProfileRouter(e, authMiddleware)
	SetupConversationRouter(e, authMiddleware)
	SetupProposalRouter(e, authMiddleware, roleMiddleware)
	SetupEventRouter(e, authMiddleware)
	SetupModerationRouter(e, authMiddleware, roleMiddleware)
	SetupNotificationRouter(e, authMiddleware, roleMiddleware)
}
