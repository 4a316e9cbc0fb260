// Package metrics defines and registers all custom Prometheus metrics for the
// veterinary records API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vetclinic"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "unknown_user" or "bad_password"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthorizationDecisionsTotal counts access gate decisions.
// Labels:
//   - action: the protected action (e.g. "record-clinical-visit")
//   - decision: "allowed", "unauthenticated" or "insufficient_role"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of access gate decisions, by action and outcome.",
	},
	[]string{"action", "decision"},
)

// ── Clinical history metrics ──────────────────────────────────────────────────

// ClinicalVisitsTotal counts attempts to append a visit to a clinical history.
// Label:
//   - result: "recorded", "conflict", "not_found" or "error"
var ClinicalVisitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clinical_visits_total",
		Help:      "Total number of clinical visit submissions, by result.",
	},
	[]string{"result"},
)

// VisitProcessingDuration measures how long a visit takes from submission to persistence,
// including time spent waiting behind other visits for the same pet.
var VisitProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "visit_processing_duration_seconds",
		Help:      "Duration of clinical visit processing, queueing included.",
		Buckets:   prometheus.DefBuckets,
	},
)

// VisitQueueDepth tracks the number of visits waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var VisitQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "visit_queue_depth",
		Help:      "Current number of visits pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Inventory and directory gauges ────────────────────────────────────────────

// AdministratorsCount is the number of accounts holding the administrator role.
var AdministratorsCount = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "administrators",
		Help:      "Number of user accounts with the administrator role.",
	},
)

// LowStockProducts is the number of products at or below the low stock threshold.
var LowStockProducts = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "low_stock_products",
		Help:      "Number of products whose stock is at or below the configured threshold.",
	},
)
