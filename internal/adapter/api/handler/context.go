package handler

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/usecase"
)

// viewer resolves the caller's tenant and verification state. Anonymous
// viewers browse the default tenant's public content.
func viewer(c echo.Context, userUseCase *usecase.UserUseCase) (tenantID string, verified bool) {
	uid, ok := c.Get("uid").(string)
	if !ok || uid == "" {
		return defaultTenant, false
	}

	user, err := userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return defaultTenant, false
	}
	return user.TenantID, user.IsVerified()
}
