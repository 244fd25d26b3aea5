// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsCreatedTotal counts sessions opened by successful logins.
var SessionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Total number of sessions created by successful logins.",
	},
)

// SessionsRenewedTotal counts sliding-expiration renewals (token rotations).
var SessionsRenewedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_renewed_total",
		Help:      "Total number of session renewals with token rotation.",
	},
)

// SessionsRevokedTotal counts explicit logouts.
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions revoked by logout.",
	},
)

// SessionsPurgedTotal counts rows removed by the expired-session sweeper.
var SessionsPurgedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_purged_total",
		Help:      "Total number of expired sessions removed by the purge sweep.",
	},
)

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateDecisionsTotal counts access gate outcomes.
// Label:
//   - result: "allow", "anonymous", or "redirect". Denials carry no reason
//     label; the decision layer does not distinguish them externally.
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of access gate decisions, by result.",
	},
	[]string{"result"},
)

// ── Lead capture metrics ──────────────────────────────────────────────────────

// ProspectsCapturedTotal counts coupon-modal submissions.
// Label:
//   - result: "created" (new lead) or "duplicate" (dedup hit, skipped)
var ProspectsCapturedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prospects_captured_total",
		Help:      "Total number of lead-capture submissions, by result.",
	},
	[]string{"result"},
)
