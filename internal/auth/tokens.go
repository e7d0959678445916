package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkstone/bookstore-api/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and parses HS256 JWTs carrying the user id as the
// subject claim.
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

func NewTokenManager(cfg config.JWT) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Secret),
		expiry: cfg.Expiry,
	}
}

func (m *TokenManager) Generate(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
	})
	return token.SignedString(m.secret)
}

// Parse validates the token and returns the user id it was issued for.
func (m *TokenManager) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
