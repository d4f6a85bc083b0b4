// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	TransactionsSimulated *prometheus.CounterVec
	SandwichAttempts      prometheus.Counter
	SandwichSuccesses     prometheus.Counter
	MevExtractedLamports  prometheus.Counter
	VictimLossLamports    prometheus.Counter
	SimulationErrors      *prometheus.CounterVec
	RunDuration           prometheus.Histogram

	// Protocol metrics
	CommitsTotal  prometheus.Counter
	RevealsTotal  *prometheus.CounterVec
	CancelsTotal  prometheus.Counter
	RevealLatency prometheus.Histogram

	// Pool metrics
	PoolReserveA prometheus.Gauge
	PoolReserveB prometheus.Gauge
	PoolPrice    *prometheus.GaugeVec

	// Cluster metrics
	RPCCallLatency  *prometheus.HistogramVec
	AirdropsTotal   *prometheus.CounterVec
	HighestSlotSeen prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "securelp"
	}

	return &Metrics{
		// Simulation metrics
		TransactionsSimulated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "transactions_total",
			Help:      "Total number of simulated transactions by scenario",
		}, []string{"scenario"}),
		SandwichAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "sandwich_attempts_total",
			Help:      "Total number of sandwich attacks evaluated",
		}),
		SandwichSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "sandwich_successes_total",
			Help:      "Total number of profitable sandwich attacks",
		}),
		MevExtractedLamports: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "mev_extracted_lamports_total",
			Help:      "Total MEV extracted in lamports",
		}),
		VictimLossLamports: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "victim_loss_lamports_total",
			Help:      "Total victim losses in lamports",
		}),
		SimulationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "errors_total",
			Help:      "Total number of per-transaction simulation errors",
		}, []string{"scenario"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Full simulation run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		// Protocol metrics
		CommitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "commits_total",
			Help:      "Total number of commitments created",
		}),
		RevealsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "reveals_total",
			Help:      "Total number of reveals by outcome",
		}, []string{"outcome"}),
		CancelsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "cancels_total",
			Help:      "Total number of cancelled commitments",
		}),
		RevealLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "reveal_delay_seconds",
			Help:      "Observed commit-to-reveal delay in seconds",
			Buckets:   []float64{1, 2, 3, 5, 10, 30, 60},
		}),

		// Pool metrics
		PoolReserveA: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "reserve_a_lamports",
			Help:      "Current reserve of token A in lamports",
		}),
		PoolReserveB: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "reserve_b_lamports",
			Help:      "Current reserve of token B in lamports",
		}),
		PoolPrice: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "price_a_in_b",
			Help:      "Current pool price of A in B by scenario",
		}, []string{"scenario"}),

		// Cluster metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		AirdropsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "airdrops_total",
			Help:      "Total number of airdrop requests by status",
		}, []string{"status"}),
		HighestSlotSeen: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "highest_slot_seen",
			Help:      "Highest Solana slot number seen",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTransaction increments the simulated transaction counter.
func RecordTransaction(scenario string) {
	DefaultMetrics.TransactionsSimulated.WithLabelValues(scenario).Inc()
}

// RecordSandwich records one evaluated sandwich attack.
func RecordSandwich(success bool, profitLamports int64, victimLossLamports uint64) {
	DefaultMetrics.SandwichAttempts.Inc()
	if success {
		DefaultMetrics.SandwichSuccesses.Inc()
	}
	if profitLamports > 0 {
		DefaultMetrics.MevExtractedLamports.Add(float64(profitLamports))
	}
	DefaultMetrics.VictimLossLamports.Add(float64(victimLossLamports))
}

// RecordSimulationError records a per-transaction error.
func RecordSimulationError(scenario string) {
	DefaultMetrics.SimulationErrors.WithLabelValues(scenario).Inc()
}

// RecordCommit increments the commitment counter.
func RecordCommit() {
	DefaultMetrics.CommitsTotal.Inc()
}

// RecordReveal records a reveal outcome and its observed delay.
func RecordReveal(outcome string, delaySeconds float64) {
	DefaultMetrics.RevealsTotal.WithLabelValues(outcome).Inc()
	if delaySeconds > 0 {
		DefaultMetrics.RevealLatency.Observe(delaySeconds)
	}
}

// UpdatePoolState updates the pool gauges for a scenario.
func UpdatePoolState(scenario string, reserveA, reserveB uint64, priceAInB float64) {
	DefaultMetrics.PoolPrice.WithLabelValues(scenario).Set(priceAInB)
	if scenario == "normal" {
		DefaultMetrics.PoolReserveA.Set(float64(reserveA))
		DefaultMetrics.PoolReserveB.Set(float64(reserveB))
	}
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
