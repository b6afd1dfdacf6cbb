// Package metrics defines and registers all custom Prometheus metrics for
// the marketplace API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics use promauto and register with the default registry at package
// init; the /metrics endpoint is wired by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/listado/marketplace-api/internal/core/authz"
)

const namespace = "marketplace"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDecisionsTotal counts orchestrator decisions.
// Labels:
//   - action: the requested action (e.g. "edit_listing")
//   - result: "allow" or the deny reason (e.g. "not_owner")
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by action and result.",
	},
	[]string{"action", "result"},
)

// ObserveDecision records one orchestrator outcome. Kept here so the
// decision core itself stays free of I/O and registries.
func ObserveDecision(action authz.Action, outcome authz.Outcome) {
	result := "allow"
	if !outcome.Allowed {
		result = string(outcome.Reason)
	}
	AuthzDecisionsTotal.WithLabelValues(string(action), result).Inc()
}

// ── Moderation metrics ────────────────────────────────────────────────────────

// ModerationTransitionsTotal counts applied publication state transitions.
// Labels:
//   - from, to: the states on either side of the transition
var ModerationTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_transitions_total",
		Help:      "Total number of publication state transitions applied.",
	},
	[]string{"from", "to"},
)

// ── Listing metrics ───────────────────────────────────────────────────────────

// ListingsCreatedTotal counts newly created listings.
// Label:
//   - state: the initial publication state ("pending", or "published" for
//     admin publish-on-create)
var ListingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created, by initial state.",
	},
	[]string{"state"},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditEventsTotal counts moderation audit events that finished processing.
// Label:
//   - result: "ok" or "error"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of moderation audit events processed.",
	},
	[]string{"result"},
)

// AuditDedupTotal counts deduplication decisions in the audit pipeline.
// Label:
//   - result: "hit" (duplicate, skipped), "miss" (new event, processed) or
//     "error" (store unreachable, event processed without a dedup check)
var AuditDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dedup_total",
		Help:      "Total number of audit deduplication checks, labelled by result (hit/miss/error).",
	},
	[]string{"result"},
)

// AuditEventsDroppedTotal counts audit events discarded because their
// dispatcher shard was full. A non-zero value means the audit trail has a
// gap and the worker count or buffer size needs raising.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped because a dispatcher shard was full.",
	},
)

// AuditQueueDepth tracks the current number of events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
