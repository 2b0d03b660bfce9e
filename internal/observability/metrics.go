// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scheduler metrics
	TicksTotal     prometheus.Counter
	TickDuration   prometheus.Histogram
	ActiveTokens   prometheus.Gauge
	TokensLaunched *prometheus.CounterVec

	// Market metrics
	TradesTotal         *prometheus.CounterVec
	TradeVolume         *prometheus.CounterVec
	TradesSkipped       *prometheus.CounterVec
	EventsExecuted      *prometheus.CounterVec
	TerminalTransitions *prometheus.CounterVec

	// Storage metrics
	StorageErrors *prometheus.CounterVec
	MirrorErrors  prometheus.Counter

	// Feed metrics
	FeedClients  prometheus.Gauge
	FeedMessages *prometheus.CounterVec

	// Health metrics
	LastSuccessfulTick prometheus.Gauge
	UptimeSeconds      prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "memesim"
	}

	return &Metrics{
		// Scheduler metrics
		TicksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "ticks_total",
			Help:      "Total number of scheduler ticks",
		}),
		TickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent processing one tick",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		ActiveTokens: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "active_tokens",
			Help:      "Number of tokens currently registered with the scheduler",
		}),
		TokensLaunched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "tokens_launched_total",
			Help:      "Total number of tokens launched by destiny",
		}, []string{"destiny"}),

		// Market metrics
		TradesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "trades_total",
			Help:      "Total number of applied agent trades",
		}, []string{"side", "archetype"}),
		TradeVolume: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "trade_volume_total",
			Help:      "Cumulative currency volume of applied trades",
		}, []string{"side"}),
		TradesSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "trades_skipped_total",
			Help:      "Total number of trade decisions that were not applied, by reason",
		}, []string{"reason"}),
		EventsExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "events_executed_total",
			Help:      "Total number of scheduled market events executed",
		}, []string{"event_type"}),
		TerminalTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "terminal_transitions_total",
			Help:      "Total number of tokens that died or graduated",
		}, []string{"status", "reason"}),

		// Storage metrics
		StorageErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Total number of failed storage operations",
		}, []string{"operation"}),
		MirrorErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "mirror_errors_total",
			Help:      "Total number of failed analytics mirror writes",
		}),

		// Feed metrics
		FeedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "clients",
			Help:      "Number of connected live feed clients",
		}),
		FeedMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "messages_total",
			Help:      "Total number of market updates published by sink",
		}, []string{"sink"}),

		// Health metrics
		LastSuccessfulTick: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_tick_timestamp",
			Help:      "Unix timestamp of last completed tick",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTick records a completed tick.
func RecordTick(duration time.Duration, completedAt time.Time) {
	DefaultMetrics.TicksTotal.Inc()
	DefaultMetrics.TickDuration.Observe(duration.Seconds())
	DefaultMetrics.LastSuccessfulTick.Set(float64(completedAt.Unix()))
}

// SetActiveTokens updates the registered tokens gauge.
func SetActiveTokens(n int) {
	DefaultMetrics.ActiveTokens.Set(float64(n))
}

// RecordLaunch increments the launched tokens counter.
func RecordLaunch(destiny string) {
	DefaultMetrics.TokensLaunched.WithLabelValues(destiny).Inc()
}

// RecordTrade records an applied trade and its currency volume.
func RecordTrade(side, archetype string, volume float64) {
	DefaultMetrics.TradesTotal.WithLabelValues(side, archetype).Inc()
	DefaultMetrics.TradeVolume.WithLabelValues(side).Add(volume)
}

// RecordSkippedTrade records a decision that produced no trade.
func RecordSkippedTrade(reason string) {
	DefaultMetrics.TradesSkipped.WithLabelValues(reason).Inc()
}

// RecordEvent records an executed scheduled event.
func RecordEvent(eventType string) {
	DefaultMetrics.EventsExecuted.WithLabelValues(eventType).Inc()
}

// RecordTerminal records a terminal lifecycle transition.
func RecordTerminal(status, reason string) {
	DefaultMetrics.TerminalTransitions.WithLabelValues(status, reason).Inc()
}

// RecordStorageError records a failed storage operation.
func RecordStorageError(operation string) {
	DefaultMetrics.StorageErrors.WithLabelValues(operation).Inc()
}

// RecordMirrorError records a failed analytics mirror write.
func RecordMirrorError() {
	DefaultMetrics.MirrorErrors.Inc()
}

// SetFeedClients updates the connected feed clients gauge.
func SetFeedClients(n int) {
	DefaultMetrics.FeedClients.Set(float64(n))
}

// RecordFeedMessage records a market update published to sink.
func RecordFeedMessage(sink string) {
	DefaultMetrics.FeedMessages.WithLabelValues(sink).Inc()
}

// AddUptime adds d to the uptime counter.
func AddUptime(d time.Duration) {
	DefaultMetrics.UptimeSeconds.Add(d.Seconds())
}
