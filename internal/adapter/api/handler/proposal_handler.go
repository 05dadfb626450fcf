package handler

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/internal/usecase"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/response"
	"pratorinaldo/pkg/utils"
)

type ProposalHandler struct {
	proposalUseCase *usecase.ProposalUseCase
}

func NewProposalHandler(proposalUseCase *usecase.ProposalUseCase) *ProposalHandler {
	return &ProposalHandler{
		proposalUseCase: proposalUseCase,
	}
}

func (h *ProposalHandler) ListProposals(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	filter := repository.ProposalFilter{
		Status:     c.QueryParam("status"),
		CategoryID: c.QueryParam("category_id"),
		AuthorID:   c.QueryParam("author_id"),
	}

	proposals, total, err := h.proposalUseCase.ListProposals(c.Request().Context(), defaultTenant, filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, proposals, total, pagination.Page, pagination.PageSize)
}

func (h *ProposalHandler) GetProposal(c echo.Context) error {
	proposal, err := h.proposalUseCase.GetProposal(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, proposal)
}

func (h *ProposalHandler) CreateProposal(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateProposalInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	proposal, err := h.proposalUseCase.CreateProposal(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, proposal)
}

type voteRequest struct {
	VoteType string `json:"vote_type" validate:"required,oneof=up down"`
}

// Vote toggles the caller's vote. The response carries the committed
// counters so the client can reconcile its optimistic numbers.
func (h *ProposalHandler) Vote(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.proposalUseCase.Vote(c.Request().Context(), uid, c.Param("id"), req.VoteType)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *ProposalHandler) ListComments(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	comments, total, err := h.proposalUseCase.ListComments(c.Request().Context(), c.Param("id"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, comments, total, pagination.Page, pagination.PageSize)
}

func (h *ProposalHandler) AddComment(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.AddCommentInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	comment, err := h.proposalUseCase.AddComment(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, comment)
}

func (h *ProposalHandler) DeleteComment(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.proposalUseCase.DeleteComment(c.Request().Context(), uid, c.Param("id"), c.Param("commentId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Comment deleted"})
}

// ChangeStatus moves a proposal between Agora stages (admins only).
func (h *ProposalHandler) ChangeStatus(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.ChangeProposalStatusInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	proposal, err := h.proposalUseCase.ChangeStatus(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, proposal)
}

func (h *ProposalHandler) ListStatusHistory(c echo.Context) error {
	history, err := h.proposalUseCase.ListStatusHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, history)
}

func (h *ProposalHandler) ListCategories(c echo.Context) error {
	categories, err := h.proposalUseCase.ListCategories(c.Request().Context(), defaultTenant)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, categories)
}

func (h *ProposalHandler) CreateCategory(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.ProposalCategoryInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	category, err := h.proposalUseCase.CreateCategory(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, category)
}

func (h *ProposalHandler) UpdateCategory(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.ProposalCategoryInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	category, err := h.proposalUseCase.UpdateCategory(c.Request().Context(), uid, c.Param("categoryId"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, category)
}

func (h *ProposalHandler) DeleteCategory(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.proposalUseCase.DeleteCategory(c.Request().Context(), uid, c.Param("categoryId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Category deleted"})
}
