package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/response"
)

// TokenVerifier resolves a bearer token to a user id. The Firebase
// client is the production verifier; the dev token issuer is chained
// in front of it when ENVIRONMENT=development.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	verifiers []TokenVerifier
}

func NewAuthMiddleware(verifiers ...TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifiers: verifiers,
	}
}

// Authenticate rejects requests without a valid bearer token and sets
// "uid" in the echo context for the handlers downstream.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return response.Error(c, err)
		}

		uid, err := m.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set("uid", uid)
		return next(c)
	}
}

// OptionalAuthenticate sets "uid" when a valid token is present and
// continues anonymously otherwise. Used on public listings where
// verified residents see more (private events, own pending items).
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return next(c)
		}

		if uid, err := m.VerifyToken(c.Request().Context(), token); err == nil {
			c.Set("uid", uid)
		}
		return next(c)
	}
}

// VerifyToken tries each configured verifier in order.
func (m *AuthMiddleware) VerifyToken(ctx context.Context, token string) (string, error) {
	var lastErr error
	for _, verifier := range m.verifiers {
		uid, err := verifier.VerifyToken(ctx, token)
		if err == nil {
			return uid, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.Unauthorized("No token verifier configured", nil)
	}
	return "", lastErr
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.Unauthorized("Authorization header is required", nil)
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}

	return parts[1], nil
}
