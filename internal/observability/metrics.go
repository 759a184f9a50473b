// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the forecasting core.
type Metrics struct {
	// Forecast metrics
	ForecastsGenerated *prometheus.CounterVec
	ForecastErrors     *prometheus.CounterVec
	ForecastDuration   prometheus.Histogram

	// Simulation metrics
	SimulationRuns     prometheus.Counter
	SimulationPaths    prometheus.Counter
	SimulationDuration prometheus.Histogram
	RequestsClamped    prometheus.Counter
	StressRuns         *prometheus.CounterVec

	// Goal metrics
	GoalForecasts prometheus.Counter
	GoalsAtRisk   prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered on
// the default registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "expenseflow"
	}

	return &Metrics{
		ForecastsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_generated_total",
			Help:      "Deterministic forecasts generated, by algorithm.",
		}, []string{"algorithm"}),
		ForecastErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_errors_total",
			Help:      "Forecast failures, by reason.",
		}, []string{"reason"}),
		ForecastDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_duration_seconds",
			Help:      "Wall time of deterministic forecast runs.",
			Buckets:   prometheus.DefBuckets,
		}),

		SimulationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulation_runs_total",
			Help:      "Monte Carlo simulation runs completed.",
		}),
		SimulationPaths: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulation_paths_total",
			Help:      "Individual simulation paths executed.",
		}),
		SimulationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Wall time of Monte Carlo simulation runs.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RequestsClamped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulation_requests_clamped_total",
			Help:      "Simulation requests clamped to a resource ceiling.",
		}),
		StressRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stress_runs_total",
			Help:      "Stress test scenario runs, by scenario.",
		}, []string{"scenario"}),

		GoalForecasts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "goal_forecasts_total",
			Help:      "Goal completion forecasts computed.",
		}),
		GoalsAtRisk: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goals_at_risk",
			Help:      "Active goals currently classified as at risk.",
		}),
	}
}

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
