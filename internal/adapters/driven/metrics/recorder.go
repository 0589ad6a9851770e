// Package metrics exports pipeline activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

const namespace = "descheck"

// Recorder turns state changes into counters, a busy gauge and a run
// duration histogram. Subscribe its Handle method to a pipeline.
type Recorder struct {
	transitions *prometheus.CounterVec
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	busy        prometheus.Gauge
	cache       *prometheus.CounterVec

	mu      sync.Mutex
	started map[string]time.Time
}

// NewRecorder registers the pipeline metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_transitions_total",
			Help:      "Pipeline state transitions by target stage.",
		}, []string{"stage"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished submissions by variant and outcome.",
		}, []string{"variant", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time from leaving idle to a terminal stage.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"variant"}),
		busy: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_busy",
			Help:      "1 while a submission is in flight.",
		}),
		cache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "social_cache_lookups_total",
			Help:      "Social post cache lookups by result.",
		}, []string{"result"}),
		started: make(map[string]time.Time),
	}
}

// Handle consumes one transition.
func (r *Recorder) Handle(change domain.StateChange) {
	r.transitions.WithLabelValues(change.To.Stage.String()).Inc()

	if change.To.Stage.IsBusy() {
		r.busy.Set(1)
	} else {
		r.busy.Set(0)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if change.From.Stage == domain.StageIdle && change.To.Stage.IsBusy() {
		r.started[change.RunID] = change.At
		return
	}
	if !change.To.Stage.IsTerminal() {
		return
	}

	variant := change.Variant.String()
	r.runs.WithLabelValues(variant, change.To.Stage.String()).Inc()
	if start, ok := r.started[change.RunID]; ok {
		r.duration.WithLabelValues(variant).Observe(change.At.Sub(start).Seconds())
		delete(r.started, change.RunID)
	}
}

// ObserveCacheLookup counts a social cache hit or miss.
func (r *Recorder) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cache.WithLabelValues(result).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
