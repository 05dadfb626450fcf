package handler

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/usecase"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/response"
	"pratorinaldo/pkg/utils"
)

type ArticleHandler struct {
	articleUseCase *usecase.ArticleUseCase
}

func NewArticleHandler(articleUseCase *usecase.ArticleUseCase) *ArticleHandler {
	return &ArticleHandler{
		articleUseCase: articleUseCase,
	}
}

func (h *ArticleHandler) ListArticles(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	articles, total, err := h.articleUseCase.ListPublished(c.Request().Context(), defaultTenant, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, articles, total, pagination.Page, pagination.PageSize)
}

func (h *ArticleHandler) GetArticle(c echo.Context) error {
	article, err := h.articleUseCase.GetBySlug(c.Request().Context(), defaultTenant, c.Param("slug"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, article)
}

func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateArticleInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	article, err := h.articleUseCase.CreateArticle(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, article)
}

// SubmitForReview moves a draft into the moderation queue.
func (h *ArticleHandler) SubmitForReview(c echo.Context) error {
	uid := c.Get("uid").(string)

	item, err := h.articleUseCase.SubmitForReview(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}
