package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/supportinsights/hub/internal/core/domain"
	"github.com/supportinsights/hub/internal/core/ports"
)

// DefaultTokenTTL is the fixed session token lifetime.
const DefaultTokenTTL = 24 * time.Hour

// TokenConfig holds the signing settings for session tokens.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims is the JWT payload of a session token. Subject carries the user id
// and ID carries the jti.
type Claims struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	parser   *jwt.Parser
}

var _ ports.TokenVerifier = (*TokenIssuer)(nil)

// NewTokenIssuer fails with domain.ErrConfiguration when the secret, issuer
// or audience is missing, so a misconfigured service never starts.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	switch {
	case cfg.Secret == "":
		return nil, fmt.Errorf("%w: token signing secret is not set", domain.ErrConfiguration)
	case cfg.Issuer == "":
		return nil, fmt.Errorf("%w: token issuer is not set", domain.ErrConfiguration)
	case cfg.Audience == "":
		return nil, fmt.Errorf("%w: token audience is not set", domain.ErrConfiguration)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// TTL reports the lifetime applied to every issued token.
func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// Issue signs a new token for user. Every call draws a fresh jti.
func (i *TokenIssuer) Issue(user *domain.User, now time.Time) (string, error) {
	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Verify parses token and checks signature, algorithm, issuer, audience and
// expiry.
func (i *TokenIssuer) Verify(token string) (*ports.TokenClaims, error) {
	var claims Claims
	parsed, err := i.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return &ports.TokenClaims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
		JTI:    claims.ID,
	}, nil
}
