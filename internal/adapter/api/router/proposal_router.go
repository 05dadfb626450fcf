package router

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/adapter/api/handler"
	"pratorinaldo/internal/adapter/api/middleware"
)

func SetupProposalRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	proposalHandler := handler.GetProposalHandler()

	proposals := e.Group("/v1/proposals")
	proposals.GET("", proposalHandler.ListProposals)
	proposals.GET("/categories", proposalHandler.ListCategories)
	proposals.GET("/:id", proposalHandler.GetProposal)
	proposals.GET("/:id/comments", proposalHandler.ListComments)
	proposals.GET("/:id/history", proposalHandler.ListStatusHistory)

	proposals.POST("", proposalHandler.CreateProposal, authMiddleware.Authenticate)
	proposals.POST("/:id/vote", proposalHandler.Vote, authMiddleware.Authenticate)
	proposals.POST("/:id/comments", proposalHandler.AddComment, authMiddleware.Authenticate)
	proposals.DELETE("/:id/comments/:commentId", proposalHandler.DeleteComment, authMiddleware.Authenticate)

	admin := e.Group("/v1/admin/proposals")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(roleMiddleware.AdminOnly)
	admin.PUT("/:id/status", proposalHandler.ChangeStatus)
	admin.POST("/categories", proposalHandler.CreateCategory)
	admin.PUT("/categories/:categoryId", proposalHandler.UpdateCategory)
	admin.DELETE("/categories/:categoryId", proposalHandler.DeleteCategory)
}
