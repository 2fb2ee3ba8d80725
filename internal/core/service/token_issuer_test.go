package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/supportinsights/hub/internal/core/domain"
)

func TestNewTokenIssuer_MissingSettings(t *testing.T) {
	cases := map[string]TokenConfig{
		"secret":   {Issuer: testIssuer, Audience: testAudience},
		"issuer":   {Secret: testSecret, Audience: testAudience},
		"audience": {Secret: testSecret, Issuer: testIssuer},
	}
	for name, cfg := range cases {
		if _, err := NewTokenIssuer(cfg); !errors.Is(err, domain.ErrConfiguration) {
			t.Fatalf("missing %s: expected ErrConfiguration, got %v", name, err)
		}
	}
}

func TestNewTokenIssuer_DefaultTTL(t *testing.T) {
	issuer := newTestIssuer(t)
	if issuer.TTL() != 24*time.Hour {
		t.Fatalf("expected 24h default, got %s", issuer.TTL())
	}
}

func TestTokenIssuer_IssueVerifyRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)
	user := &domain.User{ID: "U002", Name: "Bob Smith", Email: "agent@company.com", Role: domain.RoleAgent}

	token, err := issuer.Issue(user, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "U002" || claims.Role != domain.RoleAgent || claims.Email != "agent@company.com" || claims.JTI == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenIssuer_VerifyRejects(t *testing.T) {
	issuer := newTestIssuer(t)
	user := &domain.User{ID: "U001", Name: "Alice Johnson", Email: "admin@company.com", Role: domain.RoleAdmin}

	expired, err := issuer.Issue(user, time.Now().Add(-25*time.Hour))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other, err := NewTokenIssuer(TokenConfig{Secret: "other-secret", Issuer: testIssuer, Audience: testAudience})
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	foreign, _ := other.Issue(user, time.Now())

	wrongAud, err := NewTokenIssuer(TokenConfig{Secret: testSecret, Issuer: testIssuer, Audience: "someone-else"})
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	misaddressed, _ := wrongAud.Issue(user, time.Now())

	valid, _ := issuer.Issue(user, time.Now())
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "U001", "role": "Admin", "iss": testIssuer, "aud": testAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	cases := map[string]string{
		"expired":      expired,
		"foreign":      foreign,
		"misaddressed": misaddressed,
		"tampered":     tampered,
		"unsigned":     unsigned,
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		if _, err := issuer.Verify(token); err == nil {
			t.Fatalf("%s: expected verification failure", name)
		}
	}
}
