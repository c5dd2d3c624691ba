package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	httpHandlers "github.com/tasklist/web/internal/adapters/http"
)

// requireLogin guards a route behind the session's logged_in flag. Without
// the flag the wrapped handler never runs: the request is answered with a
// flash and a redirect to the login page.
func (s *Server) requireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if httpHandlers.IsAuthenticated(c) {
				return next(c)
			}

			if err := httpHandlers.AddFlash(c, httpHandlers.FlashLoginRequired); err != nil {
				s.logger.Error("Failed to save session", "error", err)
			}

			return c.Redirect(http.StatusFound, "/")
		}
	}
}
