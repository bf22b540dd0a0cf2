// Package metrics defines and registers all custom Prometheus metrics for the
// API. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics are registered with the default registry via promauto at package
// load; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tivit"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts credential checks by outcome.
// Label:
//   - outcome: "success", "invalid_credentials", "integrity_violation", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// TokenVerificationsTotal counts token verifications by result. Externally
// most rejections render as a uniform 401; this counter is where the
// individual reasons stay observable.
// Label:
//   - result: "ok", "malformed", "expired", "audience", "role_tampering", "user_inactive", "error"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of token verifications, by result.",
	},
	[]string{"result"},
)

// ── Downstream service metrics ────────────────────────────────────────────────

// ExternalRequestsTotal counts requests made against the downstream fake API.
// Labels:
//   - endpoint: "health", "user", "admin", "token"
//   - result: "ok" or "error"
var ExternalRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "external_requests_total",
		Help:      "Total number of downstream API requests, by endpoint and result.",
	},
	[]string{"endpoint", "result"},
)

// ExternalCacheTotal counts response-cache lookups.
// Label:
//   - result: "hit" or "miss"
var ExternalCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "external_cache_total",
		Help:      "Total number of downstream response cache lookups, by result.",
	},
	[]string{"result"},
)
