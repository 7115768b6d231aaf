package trace

import (
	"testing"
	"time"
)

func runScope(t *Tracer, tag string) {
	s := Trace(t, tag, HashTag(tag))
	defer s.Close()
}

func TestTracerPushPopOrdering(t *testing.T) {
	tr := NewTracer(MainThread)
	a := Trace(tr, "a", HashTag("a"))
	runScope(tr, "b")
	a.Close()

	saved := tr.SavedTraces()
	if len(saved) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(saved))
	}
	if saved[0].Info.Tag != "a" || saved[0].ParentIdx != noParent {
		t.Errorf("node 0 = %+v, want root 'a'", saved[0])
	}
	if saved[1].Info.Tag != "b" || saved[1].ParentIdx != 0 {
		t.Errorf("node 1 = %+v, want 'b' parented at 0", saved[1])
	}
	for _, n := range saved {
		if n.Info.EndT.Before(n.Info.StartT) {
			t.Errorf("node %q has end before start", n.Info.Tag)
		}
	}
}

func TestTracerPopWithNoneActivePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic popping with no active scope")
		}
	}()
	NewTracer(MainThread).Pop()
}

func TestTracerStartFrameClearsClosedScopes(t *testing.T) {
	tr := NewTracer(MainThread)
	runScope(tr, "frame1_work")
	tr.StartFrame()

	if len(tr.SavedTraces()) != 0 {
		t.Errorf("expected buffer cleared after StartFrame, got %d nodes", len(tr.SavedTraces()))
	}
}

func TestTracerStartFrameCarriesForwardOpenScope(t *testing.T) {
	tr := NewTracer(MainThread)
	open := Trace(tr, "straddles_frames", HashTag("straddles_frames"))

	tr.StartFrame()

	saved := tr.SavedTraces()
	if len(saved) != 1 {
		t.Fatalf("expected the still-open scope carried to slot 0, got %d nodes", len(saved))
	}
	if saved[0].Info.Tag != "straddles_frames" {
		t.Errorf("carried node = %+v", saved[0])
	}
	if saved[0].ParentIdx != noParent {
		t.Errorf("carried node should be a root, got ParentIdx=%d", saved[0].ParentIdx)
	}

	open.Close()
	saved = tr.SavedTraces()
	if saved[0].Info.EndT.Before(saved[0].Info.StartT) {
		t.Error("carried-forward scope did not record a sane end time on close")
	}
}

func TestRegistryLazilyCreatesPerThreadTracers(t *testing.T) {
	reg := NewRegistry()
	t1 := reg.Tracer(ThreadID(1))
	t2 := reg.Tracer(ThreadID(2))
	if t1 == t2 {
		t.Fatal("expected distinct tracers per ThreadID")
	}
	if reg.Tracer(ThreadID(1)) != t1 {
		t.Error("expected the same tracer instance on repeat lookup")
	}
	if len(reg.ThreadIDs()) != 2 {
		t.Errorf("expected 2 registered threads, got %d", len(reg.ThreadIDs()))
	}
}

func TestCollateMergesIdenticalCallStacks(t *testing.T) {
	tr := NewTracer(MainThread)
	for i := 0; i < 3; i++ {
		outer := Trace(tr, "update", HashTag("update"))
		runScope(tr, "physics")
		outer.Close()
	}

	collated := Collate(tr.SavedTraces())
	if len(collated) != 2 {
		t.Fatalf("expected 2 distinct call stacks (update, update>physics), got %d", len(collated))
	}
	if collated[0].Info.Tag != "update" || collated[0].Info.NCalls() != 3 {
		t.Errorf("update = %+v, want 3 calls", collated[0])
	}
	if collated[1].Info.Tag != "physics" || collated[1].Info.NCalls() != 3 {
		t.Errorf("physics = %+v, want 3 calls", collated[1])
	}
	if collated[1].ParentIdx != 0 {
		t.Errorf("physics.ParentIdx = %d, want 0 (update)", collated[1].ParentIdx)
	}
}

func TestCollateIsIdempotentUpToOrdering(t *testing.T) {
	tr := NewTracer(MainThread)
	runScope(tr, "a")
	runScope(tr, "a")
	runScope(tr, "b")

	first := Collate(tr.SavedTraces())
	// Collating an already-collated flat list (treated as independent
	// root scopes) should again produce one entry per distinct tag.
	again := Collate(toRootNodes(first))

	if len(again) != len(first) {
		t.Fatalf("re-collate changed entry count: %d vs %d", len(again), len(first))
	}
}

func toRootNodes(finals []TracerNodeFinal) []TracerNode {
	out := make([]TracerNode, len(finals))
	for i, f := range finals {
		out[i] = TracerNode{
			Info: ScopeTraceInfo{
				Tag:     f.Info.Tag,
				TagHash: HashTag(f.Info.Tag),
				EndT:    time.Unix(0, int64(f.Info.TotDuration())),
			},
			ParentIdx: noParent,
		}
	}
	return out
}

func TestBuildTraceTreesReconstructsForest(t *testing.T) {
	tr := NewTracer(MainThread)
	root := Trace(tr, "frame", HashTag("frame"))
	child := Trace(tr, "input", HashTag("input"))
	child.Close()
	child2 := Trace(tr, "render", HashTag("render"))
	child2.Close()
	root.Close()

	collated := Collate(tr.SavedTraces())
	forest := BuildTraceTrees(collated)

	if len(forest) != 1 {
		t.Fatalf("expected a single root tree, got %d", len(forest))
	}
	if forest[0].Node.Info.Tag != "frame" {
		t.Errorf("root = %q", forest[0].Node.Info.Tag)
	}
	if len(forest[0].Children) != 2 {
		t.Fatalf("expected 2 children under frame, got %d", len(forest[0].Children))
	}
}

func TestTotalTracedTimeSumsRootsOnly(t *testing.T) {
	nodes := []TracerNodeFinal{
		{Info: NewScopeTraceInfoFinal("root", 1, 10*time.Millisecond), ParentIdx: noParent},
		{Info: NewScopeTraceInfoFinal("child", 1, 4*time.Millisecond), ParentIdx: 0},
	}
	total := TotalTracedTime(nodes)
	if total != 10*time.Millisecond {
		t.Errorf("TotalTracedTime = %v, want 10ms (child time is nested, not additional)", total)
	}
}

func TestFlattenTracesMergesByTagLosingParent(t *testing.T) {
	nodes := []TracerNodeFinal{
		{Info: NewScopeTraceInfoFinal("physics", 2, 6*time.Millisecond), ParentIdx: noParent},
		{Info: NewScopeTraceInfoFinal("physics", 1, 3*time.Millisecond), ParentIdx: 0},
	}
	flat := FlattenTraces(nodes)
	if len(flat) != 1 {
		t.Fatalf("expected a single merged entry, got %d", len(flat))
	}
	if flat[0].Info.NCalls() != 3 {
		t.Errorf("NCalls = %d, want 3", flat[0].Info.NCalls())
	}
	if flat[0].Info.TotDuration() != 9*time.Millisecond {
		t.Errorf("TotDuration = %v, want 9ms", flat[0].Info.TotDuration())
	}
}

func TestScopeTraceInfoFinalPacksAndUnpacks(t *testing.T) {
	info := NewScopeTraceInfoFinal("tag", 12345, 987654321*time.Nanosecond)
	if info.NCalls() != 12345 {
		t.Errorf("NCalls = %d, want 12345", info.NCalls())
	}
	if info.TotDuration() != 987654321*time.Nanosecond {
		t.Errorf("TotDuration = %v, want 987654321ns", info.TotDuration())
	}
}

func TestScopeTraceInfoFinalSaturatesOversizedNCalls(t *testing.T) {
	// maxNCalls itself (1<<24) does not fit in the 24-bit field — the
	// largest representable value is maxNCalls-1 — so saturation clamps
	// there, not to maxNCalls.
	info := NewScopeTraceInfoFinal("tag", maxNCalls+1000, 0)
	if info.NCalls() != maxNCalls-1 {
		t.Errorf("NCalls = %d, want saturated to %d", info.NCalls(), maxNCalls-1)
	}
}
