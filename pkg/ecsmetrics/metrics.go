// Package ecsmetrics exposes Prometheus metrics for the ECS runtime's
// tick loop: tick counts and duration, per-system outcomes, wave
// counts, live entity counts, event and deferred-mutation volume.
package ecsmetrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ecs_ticks_total",
			Help: "Total number of scheduler ticks run",
		},
	)

	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecs_tick_duration_seconds",
			Help:    "Wall-clock time to run one tick, including deferred mutation apply",
			Buckets: prometheus.DefBuckets,
		},
	)

	SystemsRunTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecs_systems_run_total",
			Help: "Total number of system invocations by outcome",
		},
		[]string{"outcome"},
	)

	WavesPerTick = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecs_waves_per_tick",
			Help:    "Number of conflict-free waves a tick was split into",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16, 24, 32},
		},
	)

	EntitiesLive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ecs_entities_live",
			Help: "Number of currently live entities",
		},
	)

	EventsWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecs_events_written_total",
			Help: "Total number of events written, by event type",
		},
		[]string{"event_type"},
	)

	DeferredMutationsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecs_deferred_mutations_applied_total",
			Help: "Total number of deferred despawns/removals applied, by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		TicksTotal,
		TickDuration,
		SystemsRunTotal,
		WavesPerTick,
		EntitiesLive,
		EventsWrittenTotal,
		DeferredMutationsApplied,
	)
}

// Handler returns the Prometheus HTTP handler for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing a tick or system invocation.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
