// Package metrics defines and registers all custom Prometheus metrics for the
// Eco-Mission API. Metric names, labels and help strings live here and
// nowhere else.
//
// All vars register with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecomission"

// ── Ledger metrics ────────────────────────────────────────────────────────────

// MissionsCompletedTotal counts rewards committed to a ledger.
// Label:
//   - type: mission type (e.g. "qr", "quiz")
var MissionsCompletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "missions_completed_total",
		Help:      "Total number of mission completions credited to users.",
	},
	[]string{"type"},
)

// RewardsRejectedTotal counts completion attempts refused by the reward policy.
// Label:
//   - reason: "unknown_mission", "inactive_mission" or "already_completed"
var RewardsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rewards_rejected_total",
		Help:      "Total number of mission completions rejected, by reason.",
	},
	[]string{"reason"},
)

var PointsAwardedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "points_awarded_total",
		Help:      "Sum of points credited by mission completions.",
	},
)

// LedgerConflictsTotal counts commits that lost a revision race and reloaded.
var LedgerConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_revision_conflicts_total",
		Help:      "Total number of ledger commits retried after a revision conflict.",
	},
)

var OutboxFlushFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_outbox_flush_failures_total",
		Help:      "Total number of analytics events left in a ledger outbox after a failed flush.",
	},
)

// RewardApplyDuration measures ApplyReward end to end, including waiting for
// the user's shard.
// Label:
//   - outcome: "applied" or an error kind ("conflict", "not_found", ...)
var RewardApplyDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reward_apply_duration_seconds",
		Help:      "Duration of mission completion from request to commit.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Dispatcher metrics ────────────────────────────────────────────────────────

// LedgerQueueDepth tracks jobs waiting in each per-user shard.
// Label:
//   - worker_id: numeric shard index
var LedgerQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ledger_queue_depth",
		Help:      "Current number of ledger jobs pending in each dispatcher shard.",
	},
	[]string{"worker_id"},
)

// ── Planet metrics ────────────────────────────────────────────────────────────

var DecayTicksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "planet_decay_ticks_total",
		Help:      "Total number of planet decay passes run.",
	},
)

var PlanetAlertsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "planet_alerts_total",
		Help:      "Total number of critical planet health alerts published.",
	},
)
