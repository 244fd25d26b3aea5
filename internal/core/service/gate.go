package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/woodtong/storefront/internal/core/domain"
	"github.com/woodtong/storefront/internal/core/ports"
)

// RouteRule restricts a path prefix to a role.
type RouteRule struct {
	Prefix string
	Role   string
}

// CookieDirective instructs the transport layer what to do with the session
// cookie. The gate itself never touches the response; it only decides.
type CookieDirective struct {
	// Token is a freshly rotated session token to set. Empty means no write.
	Token string
	// Clear asks for the cookie to be removed.
	Clear bool
}

// GateDecision is the outcome of evaluating one request.
type GateDecision struct {
	// Allow lets the request proceed. Identity is nil for anonymous access.
	Allow bool
	// RedirectTo, when non-empty, denies the request with a plain redirect.
	// Denials carry no detail on purpose: an unauthorised restricted path is
	// indistinguishable from one that does not exist.
	RedirectTo string
	Identity   *domain.Identity
	Cookie     *CookieDirective
}

// Gate is the per-request access decision layer. It validates the presented
// session token, applies the decision table over (token, identity, path) and
// triggers sliding renewal for sessions close to expiry.
type Gate struct {
	sessions   ports.SessionService
	rules      []RouteRule
	redirectTo string
	log        zerolog.Logger
}

// NewGate builds a Gate that redirects every denial to redirectTo.
func NewGate(sessions ports.SessionService, rules []RouteRule, redirectTo string, log zerolog.Logger) *Gate {
	if redirectTo == "" {
		redirectTo = "/"
	}
	return &Gate{sessions: sessions, rules: rules, redirectTo: redirectTo, log: log}
}

// Evaluate decides one request. A store outage during validation is treated
// exactly like an invalid session: fail closed on restricted paths, proceed
// as anonymous on public ones. It never returns an error to the caller.
func (g *Gate) Evaluate(ctx context.Context, token, path string) GateDecision {
	requiredRole := g.requiredRole(path)

	if token == "" {
		return decide(false, nil, requiredRole, g.redirectTo)
	}

	identity, err := g.sessions.Validate(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			g.log.Warn().Err(err).Msg("session validation unavailable, treating as anonymous")
		}
		identity = nil
	}

	decision := decide(true, identity, requiredRole, g.redirectTo)

	// Freshness check: rotate tokens for sessions close to expiry. A renewal
	// failure never fails the request.
	if decision.Allow && decision.Identity != nil {
		if newToken := g.maybeRenew(ctx, token); newToken != "" {
			decision.Cookie = &CookieDirective{Token: newToken}
		}
	}

	return decision
}

// decide is the pure decision table. It has no access to the store and is
// fully determined by its inputs.
func decide(hasToken bool, identity *domain.Identity, requiredRole, redirectTo string) GateDecision {
	restricted := requiredRole != ""

	if identity == nil {
		var cookie *CookieDirective
		if hasToken {
			// A presented but invalid token is cleared.
			cookie = &CookieDirective{Clear: true}
		}
		if restricted {
			return GateDecision{RedirectTo: redirectTo, Cookie: cookie}
		}
		return GateDecision{Allow: true, Cookie: cookie}
	}

	if restricted && identity.Role != requiredRole {
		// Valid session, wrong role: deny but keep the session alive.
		return GateDecision{RedirectTo: redirectTo}
	}

	return GateDecision{Allow: true, Identity: identity}
}

func (g *Gate) requiredRole(path string) string {
	for _, rule := range g.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule.Role
		}
	}
	return ""
}

func (g *Gate) maybeRenew(ctx context.Context, token string) string {
	needed, err := g.sessions.NeedsRenewal(ctx, token)
	if err != nil {
		g.log.Warn().Err(err).Msg("renewal check failed")
		return ""
	}
	if !needed {
		return ""
	}

	newToken, err := g.sessions.Renew(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			g.log.Warn().Err(err).Msg("session renewal failed")
		}
		return ""
	}
	return newToken
}
