// Package metrics exposes prometheus instruments for adaptation runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mensura"

// Metrics holds the instruments. Create one per registry with New.
type Metrics struct {
	// RunsTotal counts adaptation runs by outcome (success, failure).
	RunsTotal *prometheus.CounterVec

	// ViolationsTotal counts violations by category and stage (initial,
	// remaining).
	ViolationsTotal *prometheus.CounterVec

	// ChangesTotal counts note changes made by the repairs, by category.
	ChangesTotal *prometheus.CounterVec

	// Feasibility is the feasibility of each instrument after the most recent
	// run.
	Feasibility *prometheus.GaugeVec

	// RunDurationSeconds is the wall time of the runs.
	RunDurationSeconds prometheus.Histogram
}

// New registers the instruments with reg. A nil reg means the default
// prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "adapt",
			Name:      "runs_total",
			Help:      "Adaptation runs by outcome",
		}, []string{"outcome"}),
		ViolationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "adapt",
			Name:      "violations_total",
			Help:      "Constraint violations by category and stage",
		}, []string{"category", "stage"}),
		ChangesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "adapt",
			Name:      "changes_total",
			Help:      "Note changes made by repairs, by category",
		}, []string{"category"}),
		Feasibility: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "adapt",
			Name:      "feasibility",
			Help:      "Feasibility of each instrument after the latest run",
		}, []string{"instrument"}),
		RunDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "adapt",
			Name:      "run_duration_seconds",
			Help:      "Wall time of adaptation runs",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

// RecordRun records the outcome and duration of one run.
func (m *Metrics) RecordRun(success bool, seconds float64) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDurationSeconds.Observe(seconds)
}

// RecordViolations adds violation counts per category for a stage.
func (m *Metrics) RecordViolations(stage string, counts map[string]int) {
	for cat, n := range counts {
		m.ViolationsTotal.WithLabelValues(cat, stage).Add(float64(n))
	}
}

// RecordChanges adds the number of note changes made by a repair.
func (m *Metrics) RecordChanges(category string, n int) {
	if n > 0 {
		m.ChangesTotal.WithLabelValues(category).Add(float64(n))
	}
}

// SetFeasibility sets the feasibility gauges.
func (m *Metrics) SetFeasibility(f map[string]float64) {
	for instr, v := range f {
		m.Feasibility.WithLabelValues(instr).Set(v)
	}
}
