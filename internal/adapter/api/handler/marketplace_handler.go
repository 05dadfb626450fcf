package handler

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/usecase"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/response"
	"pratorinaldo/pkg/utils"
)

type MarketplaceHandler struct {
	marketplaceUseCase *usecase.MarketplaceUseCase
}

func NewMarketplaceHandler(marketplaceUseCase *usecase.MarketplaceUseCase) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceUseCase: marketplaceUseCase,
	}
}

func (h *MarketplaceHandler) ListItems(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	items, total, err := h.marketplaceUseCase.ListItems(c.Request().Context(), defaultTenant, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, items, total, pagination.Page, pagination.PageSize)
}

func (h *MarketplaceHandler) GetItem(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	item, err := h.marketplaceUseCase.GetItem(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *MarketplaceHandler) ListMyItems(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	items, total, err := h.marketplaceUseCase.ListMyItems(c.Request().Context(), uid, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, items, total, pagination.Page, pagination.PageSize)
}

func (h *MarketplaceHandler) CreateItem(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateItemInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.marketplaceUseCase.CreateItem(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *MarketplaceHandler) UpdateItem(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.UpdateItemInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.marketplaceUseCase.UpdateItem(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *MarketplaceHandler) MarkSold(c echo.Context) error {
	uid := c.Get("uid").(string)

	item, err := h.marketplaceUseCase.MarkSold(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *MarketplaceHandler) DeleteItem(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.marketplaceUseCase.DeleteItem(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Item deleted"})
}
