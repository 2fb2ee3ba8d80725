package ports

import (
	"context"

	"github.com/supportinsights/hub/internal/core/domain"
)

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token string
	User  domain.PublicUser
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	UserID string
	Email  string
	Name   string
	Role   domain.Role
	JTI    string
}

// TokenVerifier checks signature, issuer, audience and expiry of a token.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}
