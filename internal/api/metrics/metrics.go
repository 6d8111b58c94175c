// Package metrics defines the Prometheus metrics of the PharmaLink client. It
// is the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default registry on package init. The CLI
// writes them to a textfile when --metrics-file is set.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pharmalink"

// Outcome labels shared by the request metrics.
const (
	OutcomeSuccess         = "success"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeAPIError        = "api_error"
	OutcomeNetworkError    = "network_error"
)

// ── Outbound request metrics ──────────────────────────────────────────────────

// RequestsTotal counts outbound API calls once they settle.
// Labels:
//   - method: HTTP method ("GET", "POST", …)
//   - outcome: success, unauthenticated, api_error or network_error
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of outbound API requests, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// RequestDuration measures the round trip of an outbound API call.
// Label:
//   - method: HTTP method
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Duration of outbound API requests from send to parsed response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state changes.
// Label:
//   - state: "authenticated" or "anonymous"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "transitions_total",
		Help:      "Total number of session transitions, by resulting state.",
	},
	[]string{"state"},
)

// ForcedLogoutsTotal counts sessions cleared because the service answered 401
// or the token had expired.
// Label:
//   - reason: "unauthorized" or "expired"
var ForcedLogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "forced_logouts_total",
		Help:      "Total number of sessions cleared without a user-initiated logout.",
	},
	[]string{"reason"},
)

// WriteTextfile writes the default registry in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
