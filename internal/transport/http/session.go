package http

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"quizhost/internal/domain"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "quizhost_session"

type sessionClaims struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	IsAdmin      bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens. The admin flag travels in
// the token; it is computed at sign-in, never stored.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Name:         identity.Name,
		Organization: identity.Organization,
		IsAdmin:      identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *TokenManager) Parse(token string) (domain.Identity, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return domain.Identity{
		Email:        claims.Subject,
		Name:         claims.Name,
		Organization: claims.Organization,
		IsAdmin:      claims.IsAdmin,
	}, nil
}

// TTL is the cookie lifetime matching the token expiry.
func (m *TokenManager) TTL() time.Duration { return m.ttl }
