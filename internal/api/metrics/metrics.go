// Package metrics defines and registers all custom Prometheus metrics for the
// blog API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Response cache metrics ───────────────────────────────────────────────────

// CacheRequestsTotal counts requests seen by the response cache.
// Labels:
//   - route:  the echo route path (e.g. "/visitor/page")
//   - result: "hit", "miss" or "bypass"
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of requests handled by the response cache, by result.",
	},
	[]string{"route", "result"},
)

// CacheStoreErrorsTotal counts failures talking to the cache store.
// Label:
//   - op: "get" or "set"
var CacheStoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_store_errors_total",
		Help:      "Total number of cache store operations that failed.",
	},
	[]string{"op"},
)

// CacheSkippedTotal counts fresh responses that were not written to the store.
// Label:
//   - reason: "status", "too_large"
var CacheSkippedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_skipped_total",
		Help:      "Total number of downstream responses not stored in the cache.",
	},
	[]string{"reason"},
)

// ── Auth metrics ─────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected requests on protected routes.
// Label:
//   - reason: "missing_token", "invalid_signature", "expired", "forbidden"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the auth gate.",
	},
	[]string{"reason"},
)

// ── Article metrics ──────────────────────────────────────────────────────────

// ArticleMutationsTotal counts successful article mutations.
// Label:
//   - action: "created", "updated", "published", ...
var ArticleMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "article_mutations_total",
		Help:      "Total number of article mutations, by action.",
	},
	[]string{"action"},
)

// EventsQueueDepth tracks the number of history events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of article events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventsErrorsTotal counts history events that could not be persisted.
var EventsErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of article events that failed to persist.",
	},
)
