// Package metrics provides Prometheus metrics for elorank.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors for comparison sessions and
// Monte Carlo runs.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	enabled        bool
	customLabels   map[string]string
	registry       prometheus.Registerer

	// Session metrics
	comparisons      prometheus.Counter
	invalidOutcomes  prometheus.Counter
	selectionLatency prometheus.Histogram
	ratingDelta      prometheus.Histogram
	tableSize        prometheus.Gauge
	totalComparisons prometheus.Gauge

	// Simulation metrics
	simulations        *prometheus.CounterVec
	simAverageDev      *prometheus.HistogramVec
	simMaxDev          *prometheus.HistogramVec
	simDuration        prometheus.Histogram
	simWorkers         prometheus.Gauge
	simComparisonsUsed prometheus.Counter

	// Error metrics
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "elorank",
		subsystem:      "ranking",
		latencyBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		enabled:        true,
		customLabels:   make(map[string]string),
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.comparisons = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "comparisons_total",
		Help:        "Total number of completed live comparisons",
		ConstLabels: labels,
	})
	m.invalidOutcomes = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "invalid_outcomes_total",
		Help:        "Outcomes that named neither presented item",
		ConstLabels: labels,
	})
	m.selectionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "selection_latency_milliseconds",
		Help:        "Time spent choosing the next pair",
		Buckets:     m.latencyBuckets,
		ConstLabels: labels,
	})
	m.ratingDelta = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rating_delta_points",
		Help:        "Absolute rating change applied to the winner of a comparison",
		Buckets:     []float64{1, 2, 4, 8, 12, 16, 20, 24, 28, 32},
		ConstLabels: labels,
	})
	m.tableSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "table_items",
		Help:        "Number of items in the rating table",
		ConstLabels: labels,
	})
	m.totalComparisons = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "metadata_comparisons",
		Help:        "Comparisons recorded across all sessions",
		ConstLabels: labels,
	})

	m.simulations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "montecarlo",
		Name:        "simulations_total",
		Help:        "Completed simulations by heuristic configuration",
		ConstLabels: labels,
	}, []string{"config"})
	m.simAverageDev = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "montecarlo",
		Name:        "average_deviation",
		Help:        "Average rank displacement at the end of a simulation",
		Buckets:     []float64{0.25, 0.5, 0.75, 1, 1.5, 2, 3, 5, 8},
		ConstLabels: labels,
	}, []string{"config"})
	m.simMaxDev = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "montecarlo",
		Name:        "max_deviation",
		Help:        "Largest rank displacement at the end of a simulation",
		Buckets:     []float64{0, 1, 2, 3, 4, 6, 8, 12, 20},
		ConstLabels: labels,
	}, []string{"config"})
	m.simDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "montecarlo",
		Name:        "simulation_duration_milliseconds",
		Help:        "Wall time of a single simulation",
		Buckets:     prometheus.ExponentialBuckets(0.05, 2, 14),
		ConstLabels: labels,
	})
	m.simWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "montecarlo",
		Name:        "workers",
		Help:        "Simulations running in parallel",
		ConstLabels: labels,
	})
	m.simComparisonsUsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "montecarlo",
		Name:        "comparisons_total",
		Help:        "Simulated comparisons performed",
		ConstLabels: labels,
	})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Errors by component and kind",
		ConstLabels: labels,
	}, []string{"component", "kind"})
}

// RecordComparison counts one completed live round.
func (m *Manager) RecordComparison(winnerDelta float64) {
	if !m.enabled {
		return
	}
	m.comparisons.Inc()
	if winnerDelta < 0 {
		winnerDelta = -winnerDelta
	}
	m.ratingDelta.Observe(winnerDelta)
}

// RecordInvalidOutcome counts an outcome that was neither presented item.
func (m *Manager) RecordInvalidOutcome() {
	if m.enabled {
		m.invalidOutcomes.Inc()
	}
}

// RecordSelectionLatency records pair selection time in milliseconds.
func (m *Manager) RecordSelectionLatency(latencyMs float64) {
	if m.enabled {
		m.selectionLatency.Observe(latencyMs)
	}
}

// UpdateTableSize sets the number of rated items.
func (m *Manager) UpdateTableSize(n int) {
	if m.enabled {
		m.tableSize.Set(float64(n))
	}
}

// UpdateTotalComparisons sets the persisted cross-session counter.
func (m *Manager) UpdateTotalComparisons(n int) {
	if m.enabled {
		m.totalComparisons.Set(float64(n))
	}
}

// RecordSimulation records the score of one finished simulation.
func (m *Manager) RecordSimulation(config string, comparisons int, avgDev, maxDev, durationMs float64) {
	if !m.enabled {
		return
	}
	m.simulations.WithLabelValues(config).Inc()
	m.simAverageDev.WithLabelValues(config).Observe(avgDev)
	m.simMaxDev.WithLabelValues(config).Observe(maxDev)
	m.simDuration.Observe(durationMs)
	m.simComparisonsUsed.Add(float64(comparisons))
}

// UpdateSimulationWorkers sets the size of the simulation worker pool.
func (m *Manager) UpdateSimulationWorkers(n int) {
	if m.enabled {
		m.simWorkers.Set(float64(n))
	}
}

// RecordError counts an error by component and kind.
func (m *Manager) RecordError(component, kind string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, kind).Inc()
	}
}

// Package-level recorders on the global manager.

// RecordComparison counts one completed live round.
func RecordComparison(winnerDelta float64) { globalManager.RecordComparison(winnerDelta) }

// RecordInvalidOutcome counts an outcome that was neither presented item.
func RecordInvalidOutcome() { globalManager.RecordInvalidOutcome() }

// RecordSelectionLatency records pair selection time in milliseconds.
func RecordSelectionLatency(latencyMs float64) { globalManager.RecordSelectionLatency(latencyMs) }

// UpdateTableSize sets the number of rated items.
func UpdateTableSize(n int) { globalManager.UpdateTableSize(n) }

// UpdateTotalComparisons sets the persisted cross-session counter.
func UpdateTotalComparisons(n int) { globalManager.UpdateTotalComparisons(n) }

// RecordSimulation records the score of one finished simulation.
func RecordSimulation(config string, comparisons int, avgDev, maxDev, durationMs float64) {
	globalManager.RecordSimulation(config, comparisons, avgDev, maxDev, durationMs)
}

// UpdateSimulationWorkers sets the size of the simulation worker pool.
func UpdateSimulationWorkers(n int) { globalManager.UpdateSimulationWorkers(n) }

// RecordError counts an error by component and kind.
func RecordError(component, kind string) { globalManager.RecordError(component, kind) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current state of the registry in the Prometheus
// text exposition format, for pickup by a node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
