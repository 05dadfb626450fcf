package handler

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/internal/usecase"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/response"
	"pratorinaldo/pkg/utils"
)

type ModerationHandler struct {
	moderationUseCase *usecase.ModerationUseCase
}

func NewModerationHandler(moderationUseCase *usecase.ModerationUseCase) *ModerationHandler {
	return &ModerationHandler{
		moderationUseCase: moderationUseCase,
	}
}

func (h *ModerationHandler) ListQueue(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	filter := repository.ModerationFilter{
		Status:   c.QueryParam("status"),
		ItemType: c.QueryParam("item_type"),
	}

	items, total, err := h.moderationUseCase.ListQueue(c.Request().Context(), uid, defaultTenant, filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, items, total, pagination.Page, pagination.PageSize)
}

func (h *ModerationHandler) ListAssigned(c echo.Context) error {
	uid := c.Get("uid").(string)

	items, err := h.moderationUseCase.ListAssigned(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

func (h *ModerationHandler) GetItem(c echo.Context) error {
	uid := c.Get("uid").(string)

	item, err := h.moderationUseCase.GetItem(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ModerationHandler) Assign(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.moderationUseCase.Assign(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Item assigned"})
}

// Decide approves or rejects a queue item. The queue row and the target
// content row commit together.
func (h *ModerationHandler) Decide(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.DecideInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.moderationUseCase.Decide(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

type reportRequest struct {
	ItemType string `json:"item_type" validate:"required"`
	ItemID   string `json:"item_id" validate:"required"`
	Reason   string `json:"reason" validate:"required,min=5,max=1000"`
}

// Report lets a resident flag content for review.
func (h *ModerationHandler) Report(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.moderationUseCase.Report(c.Request().Context(), uid, req.ItemType, req.ItemID, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}
