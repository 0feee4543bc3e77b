// Package telemetry defines the host's Prometheus metrics for
// walk-forward runs: a scorer-latency histogram, window durations and
// outcome counts, trades emitted, symbol verdicts and an active-run
// gauge. Nothing here is read from the core's per-bar hot path, which
// never performs I/O. The backtest command records windows, trades and
// verdicts once RunWalkForward has returned, with window durations
// recorded as 0; nothing observes the scorer-latency histogram.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRegistry holds every Prometheus collector the host records
// to, grouped the way internal/interfaces/http/metrics.go's
// MetricsRegistry groups cryptorun's pipeline metrics: one struct of
// pre-registered Histogram/Counter/Gauge vectors, constructed once
// per process.
type MetricsRegistry struct {
	ScorerDuration *prometheus.HistogramVec
	WindowDuration *prometheus.HistogramVec

	TradesEmitted  *prometheus.CounterVec
	WindowOutcomes *prometheus.CounterVec // labels: status=evaluated|skip

	SymbolsPassed prometheus.Gauge
	SymbolsFailed prometheus.Gauge

	ActiveRun prometheus.Gauge
}

// NewMetricsRegistry builds and registers every collector against reg.
// Pass prometheus.NewRegistry() for an isolated registry or
// prometheus.DefaultRegisterer for the process-wide default. The
// backtest command uses its own prometheus.NewRegistry(); the `serve`
// host mode does not expose this registry.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	m := &MetricsRegistry{
		ScorerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ictcore_scorer_duration_seconds",
				Help:    "Duration of one confluence-scorer bar evaluation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"regime"},
		),
		WindowDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ictcore_window_duration_seconds",
				Help:    "Duration of one walk-forward window evaluation.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"symbol"},
		),
		TradesEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ictcore_trades_emitted_total",
				Help: "Trades emitted by the position simulator.",
			},
			[]string{"symbol", "strategy", "exit_reason"},
		),
		WindowOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ictcore_window_outcomes_total",
				Help: "Walk-forward windows by status.",
			},
			[]string{"symbol", "status"},
		),
		SymbolsPassed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ictcore_symbols_passed",
			Help: "Symbols passing the walk-forward pass rules in the current run.",
		}),
		SymbolsFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ictcore_symbols_failed",
			Help: "Symbols failing the walk-forward pass rules in the current run.",
		}),
		ActiveRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ictcore_active_run",
			Help: "1 while a walk-forward run is in progress, 0 otherwise.",
		}),
	}
	reg.MustRegister(
		m.ScorerDuration, m.WindowDuration, m.TradesEmitted,
		m.WindowOutcomes, m.SymbolsPassed, m.SymbolsFailed, m.ActiveRun,
	)
	return m
}

// RecordWindow records one window's duration and outcome status.
// Trades are recorded separately through RecordTrade.
func (m *MetricsRegistry) RecordWindow(symbol string, status string, durationSeconds float64) {
	m.WindowDuration.WithLabelValues(symbol).Observe(durationSeconds)
	m.WindowOutcomes.WithLabelValues(symbol, status).Inc()
}

// RecordTrade records one trade emitted by the simulator.
func (m *MetricsRegistry) RecordTrade(symbol, strategy, exitReason string) {
	m.TradesEmitted.WithLabelValues(symbol, strategy, exitReason).Inc()
}

// RecordSymbolVerdict updates the pass/fail gauges after a symbol's
// walk-forward evaluation completes.
func (m *MetricsRegistry) RecordSymbolVerdict(passed bool) {
	if passed {
		m.SymbolsPassed.Inc()
		return
	}
	m.SymbolsFailed.Inc()
}
