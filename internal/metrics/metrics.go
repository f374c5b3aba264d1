// Package metrics provides the centralized Prometheus metrics registry
// for the prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "predictions_generated_total",
		Help:      "Total number of market predictions generated",
	}, []string{"market"})
	PredictionFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "prediction_failures_total",
		Help:      "Total number of fixtures that failed to predict",
	})
	ValueBetsFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "value_bets_found_total",
		Help:      "Total number of value bets passing the screen",
	})
	ParlayRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "parlay_rejections_total",
		Help:      "Total number of parlays rejected for correlation",
	})
	BacktestRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs",
	})
)

// Gauge metrics
var (
	RatedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitchside",
		Name:      "rated_teams",
		Help:      "Number of teams with an Elo rating",
	})
	ModelDrawRho = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitchside",
		Name:      "model_draw_rho",
		Help:      "Fitted Dixon-Coles low-score correlation parameter",
	})
)

// Histogram metrics
var (
	ModelFitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitchside",
		Name:      "model_fit_duration_seconds",
		Help:      "Duration of goal model fits in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitchside",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsGeneratedTotal)
		registry.MustRegister(PredictionFailuresTotal)
		registry.MustRegister(ValueBetsFoundTotal)
		registry.MustRegister(ParlayRejectionsTotal)
		registry.MustRegister(BacktestRunsTotal)

		registry.MustRegister(RatedTeams)
		registry.MustRegister(ModelDrawRho)

		registry.MustRegister(ModelFitDuration)
		registry.MustRegister(BacktestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records one generated market prediction.
func RecordPrediction(market string) {
	PredictionsGeneratedTotal.WithLabelValues(market).Inc()
}

// RecordPredictionFailure records a fixture that could not be predicted.
func RecordPredictionFailure() {
	PredictionFailuresTotal.Inc()
}

// RecordValueBet records a bet passing the value screen.
func RecordValueBet() {
	ValueBetsFoundTotal.Inc()
}

// RecordParlayRejection records a rejected parlay.
func RecordParlayRejection() {
	ParlayRejectionsTotal.Inc()
}

// RecordModelFit records a model fit duration.
func RecordModelFit(durationSeconds float64) {
	ModelFitDuration.Observe(durationSeconds)
}

// RecordBacktestRun records a completed backtest and its duration.
func RecordBacktestRun(durationSeconds float64) {
	BacktestRunsTotal.Inc()
	BacktestDuration.Observe(durationSeconds)
}
