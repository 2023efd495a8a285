package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegisterer(registry)

	if m.Calculations == nil || m.Projections == nil || m.DBQueries == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.RecordHealthScore("B")

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestObserveCalculation(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.ObserveCalculation("goal_projection", 20*time.Millisecond, nil)
	m.ObserveCalculation("goal_projection", 5*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.Calculations.WithLabelValues("goal_projection")); got != 2 {
		t.Fatalf("expected 2 calculations, got %v", got)
	}

	if got := testutil.ToFloat64(m.CalculationErrors.WithLabelValues("goal_projection")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
}

func TestRecorders(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.RecordProjection("debt", false)
	m.RecordProjection("debt", false)
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)
	m.ObserveQuery("goals", time.Millisecond, errors.New("timeout"))

	tests := []struct {
		name      string
		collector prometheus.Collector
		want      float64
	}{
		{"off-track debt projections", m.Projections.WithLabelValues("debt", "false"), 2},
		{"on-track debt projections", m.Projections.WithLabelValues("debt", "true"), 0},
		{"cache hits", m.CacheLookups.WithLabelValues("hit"), 1},
		{"cache misses", m.CacheLookups.WithLabelValues("miss"), 2},
		{"db errors", m.DBErrors.WithLabelValues("goals"), 1},
	}

	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.collector); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}
