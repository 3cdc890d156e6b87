// Package metrics defines and registers the custom Prometheus metrics of the
// records API. HTTP request metrics come from echoprometheus; everything here
// describes domain activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "records"

// Outcome labels shared by the counters below.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// ── Session metrics ──────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login attempts.
// Labels:
//   - tool: "ledger" or "inventory"
//   - result: "ok", "rejected" (bad identity or secret) or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login attempts, by tool and result.",
	},
	[]string{"tool", "result"},
)

// LogoutsTotal counts sessions ended through the logout command.
var LogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of sessions ended by logout, by tool.",
	},
	[]string{"tool"},
)

// ── Ledger metrics ───────────────────────────────────────────────────────────

// LedgerOperationsTotal counts ledger commands.
// Labels:
//   - operation: "open", "balance", "deposit", "withdraw"
//   - result: "ok", "rejected" or "error"
var LedgerOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_operations_total",
		Help:      "Total number of ledger operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// LedgerOperationDuration measures a ledger command including the durable write.
var LedgerOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ledger_operation_duration_seconds",
		Help:      "Duration of ledger operations from request to durable write.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Inventory metrics ────────────────────────────────────────────────────────

// InventoryOperationsTotal counts stock record commands.
// Labels:
//   - operation: "add", "update", "delete", "get", "list", "low_stock"
//   - result: "ok", "rejected" or "error"
var InventoryOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_operations_total",
		Help:      "Total number of inventory operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// LowStockProducts holds the size of the most recent low-stock report.
var LowStockProducts = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "low_stock_products",
		Help:      "Number of products at or below the threshold in the last low-stock query.",
	},
)
