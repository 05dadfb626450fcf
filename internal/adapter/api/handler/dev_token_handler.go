package handler

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/domain/repository"
	"pratorinaldo/internal/infrastructure/firebase"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/response"
)

// DevTokenHandler mints local HS256 tokens so the API can be exercised
// without a Firebase project. Routed only when ENVIRONMENT=development.
type DevTokenHandler struct {
	issuer   *firebase.DevTokenIssuer
	userRepo repository.UserRepository
}

var devTokenHandler *DevTokenHandler

func SetupDevTokenHandler(issuer *firebase.DevTokenIssuer, userRepo repository.UserRepository) {
	devTokenHandler = &DevTokenHandler{
		issuer:   issuer,
		userRepo: userRepo,
	}
}

func GetDevTokenHandler() *DevTokenHandler { return devTokenHandler }

func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	uid := c.QueryParam("uid")
	email := c.QueryParam("email")

	if uid == "" && email == "" {
		return response.Error(c, errors.BadRequest("uid or email is required", nil))
	}

	if uid == "" {
		user, err := h.userRepo.GetByEmail(c.Request().Context(), email)
		if err != nil {
			return response.Error(c, err)
		}
		uid = user.ID
	}

	token, err := h.issuer.GenerateToken(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"uid":   uid,
		"token": token,
	})
}
