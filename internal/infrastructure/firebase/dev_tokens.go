package firebase

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"pratorinaldo/pkg/errors"
)

// DevTokenIssuer mints and verifies local HS256 tokens so the API can
// run without a Firebase project in development. Only the auth
// middleware consults it, and only when ENVIRONMENT=development.
type DevTokenIssuer struct {
	secret []byte
	expiry time.Duration
}

func NewDevTokenIssuer(secret string, expiry time.Duration) *DevTokenIssuer {
	return &DevTokenIssuer{
		secret: []byte(secret),
		expiry: expiry,
	}
}

type devClaims struct {
	jwt.RegisteredClaims
	UID string `json:"uid"`
}

func (d *DevTokenIssuer) GenerateToken(ctx context.Context, uid string) (string, error) {
	now := time.Now()
	claims := devClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pratorinaldo-dev",
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d.expiry)),
		},
		UID: uid,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(d.secret)
	if err != nil {
		return "", errors.Internal("failed to sign dev token", err)
	}
	return signed, nil
}

func (d *DevTokenIssuer) VerifyToken(ctx context.Context, tokenString string) (string, error) {
	claims := &devClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Unauthorized("unexpected signing method", nil)
		}
		return d.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.Unauthorized("invalid token", err)
	}

	if claims.UID != "" {
		return claims.UID, nil
	}
	return claims.Subject, nil
}
