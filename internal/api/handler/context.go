package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/supportinsights/hub/internal/api/middleware"
	"github.com/supportinsights/hub/internal/core/domain"
)

// ctxClaims extracts the caller identity injected by the Auth middleware.
// A missing role means the middleware did not run, so the request is
// rejected with 401 before any service call.
func ctxClaims(c echo.Context) (userID string, role domain.Role, err error) {
	r, _ := c.Get(middleware.CtxRole).(string)
	if r == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	userID, _ = c.Get(middleware.CtxUserID).(string)
	return userID, domain.Role(r), nil
}

// bindAndValidate binds the request body and runs struct validation. Both
// failures are reported as 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
