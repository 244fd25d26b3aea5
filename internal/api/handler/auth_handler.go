package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/woodtong/storefront/internal/api/metrics"
	"github.com/woodtong/storefront/internal/api/middleware"
	"github.com/woodtong/storefront/internal/core/domain"
	"github.com/woodtong/storefront/internal/core/ports"
)

type AuthHandler struct {
	sessions ports.SessionService
	cookie   middleware.CookieConfig
}

func NewAuthHandler(sessions ports.SessionService, cookie middleware.CookieConfig) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type loginResponse struct {
	User         *domain.Identity `json:"user"`
	RefreshToken string           `json:"refresh_token"`
}

// Login authenticates by email and password and opens a session. The session
// token travels only in the cookie; the refresh token is returned in the body
// for clients that want to re-mint a pair without the cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	pair, identity, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		return err
	}

	metrics.SessionsCreatedTotal.Inc()
	c.SetCookie(middleware.NewSessionCookie(h.cookie, pair.SessionToken))

	return c.JSON(http.StatusOK, loginResponse{User: identity, RefreshToken: pair.RefreshToken})
}

// Logout revokes the current session and clears the cookie. Revoking an
// already-dead session is fine; logout always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(h.cookie.Name); err == nil && ck.Value != "" {
		if err := h.sessions.Revoke(c.Request().Context(), ck.Value); err != nil {
			return err
		}
		metrics.SessionsRevokedTotal.Inc()
	}

	c.SetCookie(middleware.ClearSessionCookie(h.cookie))
	return c.NoContent(http.StatusNoContent)
}

// Me returns the identity of the current session. Role is read fresh from
// the store on every request, so a role change takes effect immediately.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

// Refresh exchanges a refresh token for a fresh token pair on the same
// session. An unknown or expired refresh token is a plain 401.
//
// @Summary      Refresh session tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  domain.TokenPair
// @Failure      401   {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	pair, err := h.sessions.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		}
		return err
	}

	c.SetCookie(middleware.NewSessionCookie(h.cookie, pair.SessionToken))
	return c.JSON(http.StatusOK, pair)
}
