package handler

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/usecase"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/response"
	"pratorinaldo/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.UpdateProfileInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// ListPendingVerifications is the admin's onboarding queue.
func (h *UserHandler) ListPendingVerifications(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	tenant, err := h.userUseCase.TenantOf(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	users, total, err := h.userUseCase.ListPendingVerifications(c.Request().Context(), tenant, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, users, total, pagination.Page, pagination.PageSize)
}

type verificationDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}

func (h *UserHandler) DecideVerification(c echo.Context) error {
	uid := c.Get("uid").(string)
	userID := c.Param("id")

	var req verificationDecisionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.DecideVerification(c.Request().Context(), uid, userID, req.Decision)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin super_admin"`
}

func (h *UserHandler) SetRole(c echo.Context) error {
	uid := c.Get("uid").(string)
	userID := c.Param("id")

	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.SetRole(c.Request().Context(), uid, userID, req.Role)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
