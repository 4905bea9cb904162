// Package metrics defines and registers all custom Prometheus metrics for the
// reservation client. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reservation"

// ── Backend API metrics ───────────────────────────────────────────────────────

// APIRequestsTotal counts calls to the reservation backend.
// Labels:
//   - method: HTTP method
//   - outcome: "ok", "application_error", "network_error", "unauthorized"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of requests sent to the reservation backend, by outcome.",
	},
	[]string{"method", "outcome"},
)

// APIRequestDuration measures round-trip time of a single backend request.
// Label:
//   - method: HTTP method
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of requests to the reservation backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// TokenRefreshTotal counts credential refresh attempts.
// Label:
//   - result: "ok", "failed", or "skipped" (credential already rotated by another request)
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of token refresh attempts, by result.",
	},
	[]string{"result"},
)

// ForcedLogoutsTotal counts sessions cleared because of an authorization failure.
// Label:
//   - reason: "policy", "refresh_failed", "retry_unauthorized"
var ForcedLogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of sessions cleared after an unauthorized response.",
	},
	[]string{"reason"},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingSubmissionsTotal counts booking submissions made through the gateway.
// Label:
//   - result: "succeeded", "failed", "invalid"
var BookingSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_submissions_total",
		Help:      "Total number of booking submissions, by result.",
	},
	[]string{"result"},
)

// ReceiptsQueueDepth tracks receipts waiting in each journal worker channel.
// Label:
//   - worker_id: numeric worker index
var ReceiptsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "receipts_queue_depth",
		Help:      "Current number of receipts pending in each journal worker channel.",
	},
	[]string{"worker_id"},
)
