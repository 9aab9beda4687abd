// Package metrics holds the Prometheus collectors shared by the compliance engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeHit       = "hit"
	OutcomeMiss      = "miss"
	OutcomeAmbiguous = "ambiguous"
)

var (
	Lookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airside_standards_lookups_total",
			Help: "Standards table lookups by table and outcome",
		},
		[]string{"table", "outcome"},
	)

	ZonesAdjusted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airside_zones_adjusted_total",
			Help: "Zones whose minimum damper position was raised",
		},
	)

	DegenerateSystems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airside_degenerate_systems_total",
			Help: "Air loops that could not be sized for ventilation",
		},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "airside_run_duration_seconds",
			Help:    "Duration of compliance runs",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"template"},
	)
)

// RecordLookup counts one lookup with the given number of matches.
func RecordLookup(table string, matches int) {
	outcome := OutcomeHit
	switch {
	case matches == 0:
		outcome = OutcomeMiss
	case matches > 1:
		outcome = OutcomeAmbiguous
	}
	Lookups.WithLabelValues(table, outcome).Inc()
}

func ObserveRun(template string, started time.Time) {
	RunDuration.WithLabelValues(template).Observe(time.Since(started).Seconds())
}
