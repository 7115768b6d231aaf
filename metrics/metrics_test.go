package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRecorderReportsToItsRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.SetLiveEntities(7)
	r.SetSpatialChunkCount(3)
	r.IncReplayDropped()
	r.ObserveTracerFrame(16 * time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	byName := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		byName[f.GetName()] = f
	}

	if g := byName["forge_ecs_live_entities"]; g == nil || g.Metric[0].GetGauge().GetValue() != 7 {
		t.Errorf("forge_ecs_live_entities not reported as 7: %+v", g)
	}
	if g := byName["forge_spatial_chunk_count"]; g == nil || g.Metric[0].GetGauge().GetValue() != 3 {
		t.Errorf("forge_spatial_chunk_count not reported as 3: %+v", g)
	}
	if c := byName["forge_replay_points_dropped_total"]; c == nil || c.Metric[0].GetCounter().GetValue() != 1 {
		t.Errorf("forge_replay_points_dropped_total not incremented: %+v", c)
	}
	if h := byName["forge_tracer_frame_duration_seconds"]; h == nil || h.Metric[0].GetHistogram().GetSampleCount() != 1 {
		t.Errorf("forge_tracer_frame_duration_seconds missing a sample: %+v", h)
	}
}

func TestNilRecorderIsNoOp(t *testing.T) {
	var r *Recorder
	// None of these may panic despite the nil receiver.
	r.SetLiveEntities(1)
	r.SetSpatialChunkCount(1)
	r.IncReplayDropped()
	r.IncReplayTruncated()
	r.ObserveTracerFrame(time.Millisecond)
}
