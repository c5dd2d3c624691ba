package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasklist/web/internal/infrastructure/logger"
	"github.com/tasklist/web/internal/ports"
)

// Flash and error texts shown to the user. Kept verbatim from the legacy
// application, typos included.
const (
	FlashLoginRequired = "you need to login first"
	FlashWelcome       = "welcome"
	FlashGoodbye       = "Goodbye"
	ErrInvalidLogin    = "Invalid Credentials.Please try again"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	authService ports.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type loginView struct {
	Flashes []string
	Error   string
}

// ShowLogin renders the login view
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	flashes, err := ConsumeFlashes(c)
	if err != nil {
		h.logger.Error("Failed to save session", "error", err)
	}
	return c.Render(http.StatusOK, "login.html", loginView{
		Flashes: flashes,
	})
}

// Login checks the submitted credentials against the configured pair. The
// session is only touched on success.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if !h.authService.Verify(form.Username, form.Password) {
		h.logger.LogSecurityEvent("failed_login", c.RealIP(), map[string]interface{}{
			"username": form.Username,
		})
		flashes, err := ConsumeFlashes(c)
		if err != nil {
			h.logger.Error("Failed to save session", "error", err)
		}
		return c.Render(http.StatusOK, "login.html", loginView{
			Flashes: flashes,
			Error:   ErrInvalidLogin,
		})
	}

	// Flag and welcome flash go out in one session save, one Set-Cookie.
	sess, err := getSession(c)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Session error")
	}
	sess.Values[loggedInKey] = true
	sess.AddFlash(FlashWelcome)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Session error")
	}

	return c.Redirect(http.StatusFound, "/tasks")
}

// Logout clears the session flag unconditionally. Always callable, guarded or
// not.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err)
		return c.Redirect(http.StatusFound, "/")
	}

	delete(sess.Values, loggedInKey)
	sess.AddFlash(FlashGoodbye)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		h.logger.Error("Failed to save session", "error", err)
	}

	return c.Redirect(http.StatusFound, "/")
}
