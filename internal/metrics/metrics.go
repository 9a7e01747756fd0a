// Package metrics defines the gateway's Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Core Service client metrics
var (
	// CoreAPIRequestsTotal tracks outbound Core API requests by operation and status
	CoreAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "core_api_requests_total",
			Help: "Total Core Service API requests by operation and response status",
		},
		[]string{"operation", "status"},
	)
)

// Command processing metrics
var (
	// CommandsTotal tracks processed bot commands by command and outcome
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total processed bot commands by command and outcome",
		},
		[]string{"command", "outcome"},
	)
)

// Relay endpoint metrics
var (
	// RelayRequestsTotal tracks inbound relay requests by outcome
	RelayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Total inbound relay requests by outcome",
		},
		[]string{"outcome"},
	)

	// RelaySendDuration tracks outbound Telegram send latency for relayed messages
	RelaySendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_send_duration_seconds",
			Help:    "Telegram send duration for relayed notifications in seconds",
			Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)
)

// Identity cache metrics
var (
	// IdentityCacheLookupsTotal tracks cache lookups by result (hit/miss)
	IdentityCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_cache_lookups_total",
			Help: "Identity cache lookups by result",
		},
		[]string{"result"},
	)
)
