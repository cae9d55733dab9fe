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
	// API metrics
	RequestsTotal  *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec

	// Strategy metrics
	StrategiesCreated  prometheus.Counter
	StrategiesUpdated  prometheus.Counter
	StrategiesDeleted  prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	PublishesTotal     *prometheus.CounterVec

	// Code generation metrics
	RendersTotal  *prometheus.CounterVec
	RenderErrors  *prometheus.CounterVec
	RenderLatency prometheus.Histogram

	// Backtest metrics
	BacktestsRun      *prometheus.CounterVec
	BacktestDuration  prometheus.Histogram
	TradesSimulated   prometheus.Counter
	BacktestsInFlight prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	UptimeSeconds prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "strategy_studio"
	}

	return &Metrics{
		// API metrics
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests by route and status class",
		}, []string{"route", "method", "status"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_latency_seconds",
			Help:      "API request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),

		// Strategy metrics
		StrategiesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "strategies",
			Name:      "created_total",
			Help:      "Total number of strategies created",
		}),
		StrategiesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "strategies",
			Name:      "updated_total",
			Help:      "Total number of strategy updates",
		}),
		StrategiesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "strategies",
			Name:      "deleted_total",
			Help:      "Total number of strategies deleted",
		}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "strategies",
			Name:      "validation_failures_total",
			Help:      "Total number of strategy validation failures by error kind",
		}, []string{"kind"}),
		PublishesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "marketplace",
			Name:      "publishes_total",
			Help:      "Total number of publish and unpublish operations",
		}, []string{"action"}),

		// Code generation metrics
		RendersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codegen",
			Name:      "renders_total",
			Help:      "Total number of code generation renders by format",
		}, []string{"format"}),
		RenderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codegen",
			Name:      "render_errors_total",
			Help:      "Total number of failed renders by format",
		}, []string{"format"}),
		RenderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "codegen",
			Name:      "render_latency_seconds",
			Help:      "Code generation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Backtest metrics
		BacktestsRun: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "runs_total",
			Help:      "Total number of backtest runs by status",
		}, []string{"status"}),
		BacktestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "duration_seconds",
			Help:      "Backtest execution duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
		TradesSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "trades_simulated_total",
			Help:      "Total number of trades simulated",
		}),
		BacktestsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "in_flight",
			Help:      "Number of backtests currently running",
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

		// Health metrics
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

// RecordRequest records one finished API request.
func RecordRequest(route, method, status string, seconds float64) {
	DefaultMetrics.RequestsTotal.WithLabelValues(route, method, status).Inc()
	DefaultMetrics.RequestLatency.WithLabelValues(route, method).Observe(seconds)
}

// RecordValidationFailure counts one validation error by kind.
func RecordValidationFailure(kind string) {
	DefaultMetrics.ValidationFailures.WithLabelValues(kind).Inc()
}

// RecordRender records a code generation render.
func RecordRender(format string, seconds float64, err error) {
	DefaultMetrics.RendersTotal.WithLabelValues(format).Inc()
	DefaultMetrics.RenderLatency.Observe(seconds)
	if err != nil {
		DefaultMetrics.RenderErrors.WithLabelValues(format).Inc()
	}
}

// RecordBacktest records a finished backtest run.
func RecordBacktest(status string, durationSeconds float64, trades int) {
	DefaultMetrics.BacktestsRun.WithLabelValues(status).Inc()
	DefaultMetrics.BacktestDuration.Observe(durationSeconds)
	DefaultMetrics.TradesSimulated.Add(float64(trades))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
