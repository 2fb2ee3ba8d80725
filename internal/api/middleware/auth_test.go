package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/supportinsights/hub/internal/core/domain"
	"github.com/supportinsights/hub/internal/core/service"
)

func newIssuer(t *testing.T) *service.TokenIssuer {
	t.Helper()
	issuer, err := service.NewTokenIssuer(service.TokenConfig{Secret: "secret", Issuer: "hub", Audience: "dashboard"})
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return issuer
}

func serveWithAuth(t *testing.T, issuer *service.TokenIssuer, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Auth(issuer)(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	issuer := newIssuer(t)
	signed, err := issuer.Issue(&domain.User{ID: "U001", Name: "Alice Johnson", Email: "admin@company.com", Role: domain.RoleAdmin}, time.Now())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	called := false
	rec := serveWithAuth(t, issuer, "Bearer "+signed, func(c echo.Context) error {
		called = true
		if c.Get(CtxUserID) != "U001" {
			t.Fatalf("user_id not set")
		}
		if c.Get(CtxRole) != "Admin" {
			t.Fatalf("role not set")
		}
		if c.Get(CtxEmail) != "admin@company.com" || c.Get(CtxName) != "Alice Johnson" {
			t.Fatalf("identity claims not set")
		}
		if jti, _ := c.Get(CtxJTI).(string); jti == "" {
			t.Fatalf("jti not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	issuer := newIssuer(t)
	expired, err := issuer.Issue(&domain.User{ID: "U001", Role: domain.RoleAdmin}, time.Now().Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"empty token":    "Bearer ",
		"garbage":        "Bearer not-a-token",
		"expired":        "Bearer " + expired,
	}
	for name, header := range cases {
		rec := serveWithAuth(t, issuer, header, func(c echo.Context) error {
			t.Fatalf("%s: should not reach next", name)
			return nil
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestAuthMiddleware_ForeignIssuer(t *testing.T) {
	issuer := newIssuer(t)
	other, err := service.NewTokenIssuer(service.TokenConfig{Secret: "secret", Issuer: "someone-else", Audience: "dashboard"})
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	signed, _ := other.Issue(&domain.User{ID: "U001", Role: domain.RoleAdmin}, time.Now())

	rec := serveWithAuth(t, issuer, "Bearer "+signed, func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
