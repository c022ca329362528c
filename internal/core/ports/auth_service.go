package ports

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

// TokenClaims is what the identity gate knows about an authenticated request.
type TokenClaims struct {
	UserID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// AccessClaims is the signed body of an access token. AuthService issues it
// and the auth middleware parses it back.
type AccessClaims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Identity returns what handlers get to know about the bearer.
func (c *AccessClaims) Identity() TokenClaims {
	id := TokenClaims{UserID: c.Subject, Role: c.Role, TokenID: c.ID}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, claims TokenClaims) error
}

// TokenDenylist records revoked tokens until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
