package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// Claims are the claims the backend puts in its access tokens.
type Claims struct {
	UserID string      `json:"userId,omitempty"`
	Role   models.Role `json:"role,omitempty"`
	Email  string      `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID returns the user ID, falling back to the standard subject claim.
func (c Claims) SubjectID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}

// Expired reports whether the exp claim is in the past. Tokens without exp never expire.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Time)
}

// ParseClaims reads the claims of an access token without verifying its signature,
// only the backend holds the signing key.
func ParseClaims(token string) (Claims, error) {
	claims := Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return Claims{}, err
	}
	return claims, nil
}

// Claims parses the stored access token.
func (s *Session) Claims(ctx context.Context) (Claims, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return Claims{}, err
	}
	if token == "" {
		return Claims{}, fmt.Errorf("no access token is stored")
	}
	return ParseClaims(token)
}
