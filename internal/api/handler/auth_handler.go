package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/huellitas/vetrecords/internal/api/middleware"
	"github.com/huellitas/vetrecords/internal/core/domain"
	"github.com/huellitas/vetrecords/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	sessionTTL   time.Duration
	secureCookie bool
}

// NewAuthHandler returns an AuthHandler. The session cookie lives as long as
// sessionTTL. secureCookie marks it Secure and should be set whenever the API
// is served over TLS.
func NewAuthHandler(authService ports.AuthService, sessionTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, sessionTTL: sessionTTL, secureCookie: secureCookie}
}

// Login authenticates a user and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, identity, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(middleware.NewSessionCookie(token, int(h.sessionTTL.Seconds()), h.secureCookie))
	return c.JSON(http.StatusOK, sessionResponse{
		Token:    token,
		Username: identity.Username,
		Role:     identity.Role,
	})
}

// Logout destroys the current session, if any, and clears the session
// cookie. It succeeds for anonymous and expired sessions too.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if id := middleware.SessionID(c); id != "" {
		if err := h.authService.Logout(c.Request().Context(), id); err != nil {
			return err
		}
	}
	c.SetCookie(middleware.NewSessionCookie("", -1, h.secureCookie))
	return c.NoContent(http.StatusNoContent)
}

// Me returns the identity of the current session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context, caller domain.SessionIdentity) error {
	return c.JSON(http.StatusOK, sessionResponse{Username: caller.Username, Role: caller.Role})
}
