package handler

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/internal/usecase"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/response"
	"pratorinaldo/pkg/utils"
)

type ServiceProfileHandler struct {
	profileUseCase *usecase.ServiceProfileUseCase
}

func NewServiceProfileHandler(profileUseCase *usecase.ServiceProfileUseCase) *ServiceProfileHandler {
	return &ServiceProfileHandler{
		profileUseCase: profileUseCase,
	}
}

func (h *ServiceProfileHandler) ListProfiles(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	filter := repository.ServiceProfileFilter{
		Category:    c.QueryParam("category"),
		ProfileType: c.QueryParam("profile_type"),
	}

	profiles, total, err := h.profileUseCase.ListProfiles(c.Request().Context(), defaultTenant, filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, profiles, total, pagination.Page, pagination.PageSize)
}

func (h *ServiceProfileHandler) GetProfile(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	profile, err := h.profileUseCase.GetProfile(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *ServiceProfileHandler) GetMyProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	profile, err := h.profileUseCase.GetMyProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *ServiceProfileHandler) CreateProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateProfileInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.profileUseCase.CreateProfile(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, profile)
}

func (h *ServiceProfileHandler) UpdateProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateProfileInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.profileUseCase.UpdateProfile(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *ServiceProfileHandler) DeleteProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.profileUseCase.DeleteProfile(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Service profile deleted"})
}
