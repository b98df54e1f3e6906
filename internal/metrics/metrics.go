// Package metrics exposes Prometheus instrumentation for the resolution
// pipeline, the cache, and the scheduled refresh job.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mnav_provider_attempts_total",
			Help: "Total number of fetch attempts per provider",
		},
		[]string{"provider"},
	)

	ProviderFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mnav_provider_failures_total",
			Help: "Total number of failed fetch attempts per provider and reason",
		},
		[]string{"provider", "reason"},
	)

	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mnav_resolutions_total",
			Help: "Total number of completed resolutions per winning source",
		},
		[]string{"source", "fallback"},
	)

	CacheReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mnav_cache_reads_total",
			Help: "Total number of cache reads per state (hit, refresh, seed)",
		},
		[]string{"state"},
	)

	CurrentMNAV = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mnav_current_value",
			Help: "The mNAV value currently served from cache",
		},
	)
)

var (
	ScheduledJobLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mnav_job_last_run_timestamp",
			Help: "Unix timestamp of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobLastDurationSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mnav_job_last_duration_seconds",
			Help: "Duration of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mnav_job_failures_total",
			Help: "Total number of failed executions per job",
		},
		[]string{"job"},
	)
)

// ObserveJob records the outcome of one scheduled job execution.
func ObserveJob(job string, startedAt time.Time, err error) {
	dur := time.Since(startedAt).Seconds()
	ScheduledJobLastDurationSeconds.WithLabelValues(job).Set(dur)
	ScheduledJobLastRun.WithLabelValues(job).Set(float64(time.Now().Unix()))
	if err != nil {
		ScheduledJobFailuresTotal.WithLabelValues(job).Inc()
	}
}
