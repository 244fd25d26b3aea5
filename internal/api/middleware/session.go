package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/woodtong/storefront/internal/api/metrics"
	"github.com/woodtong/storefront/internal/core/service"
)

// CookieConfig describes how the session cookie is written. The token is the
// only thing the browser holds; everything else lives in the store.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	// Secure restricts the cookie to encrypted transports. On in production.
	Secure bool
}

// Session gates every request: it extracts the session cookie, asks the
// access gate for a decision, applies the cookie directive to the response,
// and either redirects silently or attaches the identity and continues.
func Session(gate *service.Gate, cookie CookieConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if ck, err := c.Cookie(cookie.Name); err == nil {
				token = ck.Value
			}

			decision := gate.Evaluate(c.Request().Context(), token, c.Request().URL.Path)

			if decision.Cookie != nil {
				if decision.Cookie.Clear {
					c.SetCookie(clearSessionCookie(cookie))
				} else {
					metrics.SessionsRenewedTotal.Inc()
					c.SetCookie(newSessionCookie(cookie, decision.Cookie.Token))
				}
			}

			if decision.RedirectTo != "" {
				metrics.GateDecisionsTotal.WithLabelValues("redirect").Inc()
				return c.Redirect(http.StatusFound, decision.RedirectTo)
			}

			if decision.Identity != nil {
				metrics.GateDecisionsTotal.WithLabelValues("allow").Inc()
				c.Set("user_id", decision.Identity.UserID)
				c.Set("email", decision.Identity.Email)
				c.Set("role", decision.Identity.Role)
			} else {
				metrics.GateDecisionsTotal.WithLabelValues("anonymous").Inc()
			}

			return next(c)
		}
	}
}

// NewSessionCookie builds the session cookie for a freshly issued token:
// HttpOnly, SameSite=Strict, path scoped to the whole application, lifetime
// matching the configured session lifetime.
func NewSessionCookie(cfg CookieConfig, token string) *http.Cookie {
	return newSessionCookie(cfg, token)
}

// ClearSessionCookie builds the expired cookie that removes the session token
// from the browser.
func ClearSessionCookie(cfg CookieConfig) *http.Cookie {
	return clearSessionCookie(cfg)
}

func newSessionCookie(cfg CookieConfig, token string) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func clearSessionCookie(cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
