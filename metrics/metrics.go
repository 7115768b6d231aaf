// Package metrics wires the engine's ambient counters/gauges/histograms
// into Prometheus, grounded on internal/api/observability.go's
// promauto-based metric set — trimmed to the core substrate's own
// concerns (C3/C5/C7/C8) instead of the teacher's game/HTTP metrics.
//
// Every method has a nil receiver guard, so a *Recorder is entirely
// optional: engine code takes one as a constructor argument and calls
// its methods unconditionally, and a nil Recorder (the default when no
// caller wires one up) just no-ops. The engine never requires an HTTP
// server to exist for these metrics to be meaningful internally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder owns the engine's Prometheus collectors. Construct one with
// New and pass it (or a nil *Recorder) into the packages that report
// through it.
type Recorder struct {
	tracerFrameDuration prometheus.Histogram
	liveEntities        prometheus.Gauge
	spatialChunkCount   prometheus.Gauge
	replayDropped       prometheus.Counter
	replayTruncated     prometheus.Counter
}

// New registers the engine's collectors against reg and returns a
// Recorder wrapping them. Pass prometheus.NewRegistry() for an isolated
// registry (tests, multiple engine instances in one process), or
// prometheus.DefaultRegisterer to expose them on the usual /metrics
// handler.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		tracerFrameDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "forge_tracer_frame_duration_seconds",
			Help:    "Total traced time per frame, across root scopes.",
			Buckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.05, 0.1},
		}),
		liveEntities: factory.NewGauge(prometheus.GaugeOpts{
			Name: "forge_ecs_live_entities",
			Help: "Number of entities currently alive in the world.",
		}),
		spatialChunkCount: factory.NewGauge(prometheus.GaugeOpts{
			Name: "forge_spatial_chunk_count",
			Help: "Number of non-empty chunks currently allocated in the spatial grid.",
		}),
		replayDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "forge_replay_points_dropped_total",
			Help: "Replay data points dropped because they could not be written to or read from the stream.",
		}),
		replayTruncated: factory.NewCounter(prometheus.CounterOpts{
			Name: "forge_replay_streams_truncated_total",
			Help: "Replay streams that ended mid-point instead of on a clean point boundary.",
		}),
	}
}

// ObserveTracerFrame records the total traced time for one frame.
func (r *Recorder) ObserveTracerFrame(d time.Duration) {
	if r == nil {
		return
	}
	r.tracerFrameDuration.Observe(d.Seconds())
}

// SetLiveEntities reports the current entity count.
func (r *Recorder) SetLiveEntities(n int) {
	if r == nil {
		return
	}
	r.liveEntities.Set(float64(n))
}

// SetSpatialChunkCount reports the current chunk count.
func (r *Recorder) SetSpatialChunkCount(n int) {
	if r == nil {
		return
	}
	r.spatialChunkCount.Set(float64(n))
}

// IncReplayDropped increments the dropped-replay-point counter.
func (r *Recorder) IncReplayDropped() {
	if r == nil {
		return
	}
	r.replayDropped.Inc()
}

// IncReplayTruncated increments the truncated-replay-stream counter.
func (r *Recorder) IncReplayTruncated() {
	if r == nil {
		return
	}
	r.replayTruncated.Inc()
}
