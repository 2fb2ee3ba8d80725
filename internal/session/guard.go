package session

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Status reports whether a session is currently established.
type Status interface {
	IsAuthenticated() bool
}

// Guard redirects to loginPath whenever status has no session.
func Guard(status Status, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !status.IsAuthenticated() {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			return next(c)
		}
	}
}
