package handler

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/usecase"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/response"
	"pratorinaldo/pkg/utils"
)

type ForumHandler struct {
	forumUseCase *usecase.ForumUseCase
}

func NewForumHandler(forumUseCase *usecase.ForumUseCase) *ForumHandler {
	return &ForumHandler{
		forumUseCase: forumUseCase,
	}
}

func (h *ForumHandler) ListCategories(c echo.Context) error {
	categories, err := h.forumUseCase.ListCategories(c.Request().Context(), defaultTenant)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, categories)
}

func (h *ForumHandler) CreateCategory(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.ForumCategoryInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	category, err := h.forumUseCase.CreateCategory(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, category)
}

func (h *ForumHandler) ListThreads(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	threads, total, err := h.forumUseCase.ListThreads(c.Request().Context(), c.Param("categoryId"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, threads, total, pagination.Page, pagination.PageSize)
}

func (h *ForumHandler) CreateThread(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateThreadInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	req.CategoryID = c.Param("categoryId")
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	thread, err := h.forumUseCase.CreateThread(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, thread)
}

func (h *ForumHandler) GetThread(c echo.Context) error {
	thread, err := h.forumUseCase.GetThread(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, thread)
}

func (h *ForumHandler) ListPosts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	posts, total, err := h.forumUseCase.ListPosts(c.Request().Context(), c.Param("id"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, posts, total, pagination.Page, pagination.PageSize)
}

func (h *ForumHandler) CreatePost(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreatePostInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	post, err := h.forumUseCase.CreatePost(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, post)
}

func (h *ForumHandler) EditPost(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.EditPostInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	post, err := h.forumUseCase.EditPost(c.Request().Context(), uid, c.Param("id"), c.Param("postId"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, post)
}

func (h *ForumHandler) DeletePost(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.forumUseCase.DeletePost(c.Request().Context(), uid, c.Param("id"), c.Param("postId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Post deleted"})
}

type threadFlagsRequest struct {
	Pinned *bool `json:"pinned"`
	Locked *bool `json:"locked"`
}

// SetThreadFlags pins or locks a thread (moderators only).
func (h *ForumHandler) SetThreadFlags(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req threadFlagsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	thread, err := h.forumUseCase.SetThreadFlags(c.Request().Context(), uid, c.Param("id"), req.Pinned, req.Locked)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, thread)
}
