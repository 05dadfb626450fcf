package router

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/adapter/api/handler"
	"pratorinaldo/internal/adapter/api/middleware"
)

func SetupArticleRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	articleHandler := handler.GetArticleHandler()

	articles := e.Group("/v1/articles")
	articles.GET("", articleHandler.ListArticles)
	articles.GET("/:slug", articleHandler.GetArticle)

	articles.POST("", articleHandler.CreateArticle, authMiddleware.Authenticate)
	articles.POST("/:id/submit", articleHandler.SubmitForReview, authMiddleware.Authenticate)
}
