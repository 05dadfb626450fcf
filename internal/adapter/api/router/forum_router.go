package router

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/adapter/api/handler"
	"pratorinaldo/internal/adapter/api/middleware"
)

func SetupForumRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	forumHandler := handler.GetForumHandler()

	forum := e.Group("/v1/forum")
	forum.GET("/categories", forumHandler.ListCategories)
	forum.GET("/categories/:categoryId/threads", forumHandler.ListThreads)
	forum.GET("/threads/:id", forumHandler.GetThread)
	forum.GET("/threads/:id/posts", forumHandler.ListPosts)

	forum.POST("/categories", forumHandler.CreateCategory, authMiddleware.Authenticate, roleMiddleware.AdminOnly)
	forum.POST("/categories/:categoryId/threads", forumHandler.CreateThread, authMiddleware.Authenticate)
	forum.POST("/threads/:id/posts", forumHandler.CreatePost, authMiddleware.Authenticate)
	forum.PATCH("/threads/:id/posts/:postId", forumHandler.EditPost, authMiddleware.Authenticate)
	forum.DELETE("/threads/:id/posts/:postId", forumHandler.DeletePost, authMiddleware.Authenticate)
	forum.PUT("/threads/:id/flags", forumHandler.SetThreadFlags, authMiddleware.Authenticate, roleMiddleware.ModeratorOnly)
}
