package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/woodtong/storefront/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the session middleware and
// performs a fast-fail check before any service call: a handler registered
// behind a restricted route must never run without one.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated identity")
	}
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	return &domain.Identity{UserID: userID, Email: email, Role: role}, nil
}
