package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager signs and verifies the JWTs that the server puts into the
// session cookie. Tokens carry the user ID as their subject.
type TokenManager struct {
	secretKey     string
	tokenDuration time.Duration
}

// NewTokenManager returns an instance of TokenManager.
func NewTokenManager(secret string, duration time.Duration) *TokenManager {
	return &TokenManager{secretKey: secret, tokenDuration: duration}
}

// Generate creates a signed token for the given user ID.
func (m *TokenManager) Generate(userID int) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// Verify parses and validates a token and returns the user ID it was issued for.
func (m *TokenManager) Verify(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject: %w", err)
	}
	return userID, nil
}

// Duration returns the lifetime tokens are issued with. The session cookie
// uses it as its max age.
func (m *TokenManager) Duration() time.Duration {
	return m.tokenDuration
}
