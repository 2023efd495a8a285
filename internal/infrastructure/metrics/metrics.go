package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. It implements usecase.MetricsRecorder.
type Metrics struct {
	// Calculation metrics
	Calculations        *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec
	CalculationErrors   *prometheus.CounterVec

	// Projection metrics
	Projections *prometheus.CounterVec

	// Health metrics
	HealthScores *prometheus.CounterVec

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all Prometheus metrics on the given registerer.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Calculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goforecast_calculations_total",
				Help: "Total forecasting calculations by operation",
			},
			[]string{"operation"},
		),
		CalculationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goforecast_calculation_duration_seconds",
				Help:    "Duration of forecasting calculations including data loading",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		CalculationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goforecast_calculation_errors_total",
				Help: "Total failed forecasting calculations by operation",
			},
			[]string{"operation"},
		),

		Projections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goforecast_projections_total",
				Help: "Total goal and debt projections by outcome",
			},
			[]string{"kind", "on_track"},
		),

		HealthScores: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goforecast_health_scores_total",
				Help: "Total computed health scores by grade",
			},
			[]string{"grade"},
		),

		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goforecast_cache_lookups_total",
				Help: "Health report cache lookups by result",
			},
			[]string{"result"},
		),

		DBQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goforecast_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"table"},
		),
		DBDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goforecast_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"table"},
		),
		DBErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goforecast_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"table"},
		),
	}
}

// ObserveCalculation records one calculation and its outcome.
func (m *Metrics) ObserveCalculation(operation string, duration time.Duration, err error) {
	m.Calculations.WithLabelValues(operation).Inc()
	m.CalculationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.CalculationErrors.WithLabelValues(operation).Inc()
	}
}

// RecordProjection counts a projection by kind and on-track outcome.
func (m *Metrics) RecordProjection(kind string, onTrack bool) {
	m.Projections.WithLabelValues(kind, strconv.FormatBool(onTrack)).Inc()
}

// RecordHealthScore counts a computed health score by grade.
func (m *Metrics) RecordHealthScore(grade string) {
	m.HealthScores.WithLabelValues(grade).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveQuery records a database read against a table.
func (m *Metrics) ObserveQuery(table string, duration time.Duration, err error) {
	m.DBQueries.WithLabelValues(table).Inc()
	m.DBDuration.WithLabelValues(table).Observe(duration.Seconds())
	if err != nil {
		m.DBErrors.WithLabelValues(table).Inc()
	}
}
