package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepProcessed counts ids examined by sweeps, labelled by outcome
	// (created, skipped, errored).
	SweepProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hngems_sweep_posts_processed_total",
		Help: "Posts examined by ingestion sweeps, by outcome.",
	}, []string{"outcome"})

	// GemsFound counts posts classified as hidden gems.
	GemsFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hngems_sweep_gems_found_total",
		Help: "Posts classified as hidden gems.",
	})

	// SweepDuration observes wall-clock sweep duration.
	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hngems_sweep_duration_seconds",
		Help:    "Duration of ingestion sweeps in seconds.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	// MonitorSuccesses counts gems promoted to the hall of fame.
	MonitorSuccesses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hngems_monitor_new_successes_total",
		Help: "Gems newly verified above the success threshold.",
	})

	// MonitorChecks counts monitor re-polls of gems.
	MonitorChecks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hngems_monitor_checks_total",
		Help: "Gem re-checks performed by the success monitor.",
	})
)
