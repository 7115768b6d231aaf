// Package trace implements the per-thread scope tracer (C8): a call
// tree recorder cheap enough to wrap every significant per-frame scope,
// plus the post-processing passes (collate, build/sort trees, flatten,
// total time) that turn one frame's raw pushes/pops into a profiler
// view.
//
// Grounded on inle_diagnostics/src/tracer.rs: per-thread Tracer with a
// saved_traces vec and a cur_active cursor, Scope_Trace as an RAII
// push/pop pair (modeled here as an explicit Scope with a Close method,
// since Go has no Drop), and the FNV1a call-stack hashing used by
// collate_traces.
package trace

import (
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	fnv1aOffset32 = 2166136261
	fnv1aPrime32  = 16777619
)

// HashTag computes the FNV1a-32 hash of a scope tag, the same
// algorithm collate uses to hash a chain of tag hashes. Callers
// typically compute this once per call site and pass the result to
// Push/Trace rather than re-hashing every frame.
func HashTag(tag string) uint32 {
	h := uint32(fnv1aOffset32)
	for i := 0; i < len(tag); i++ {
		h ^= uint32(tag[i])
		h *= fnv1aPrime32
	}
	return h
}

// ThreadID names a tracer slot. The core never inspects goroutine
// identity itself (Go exposes none); callers assign one ThreadID per
// worker, mirroring the source's std::thread::ThreadId keys into the
// Tracers map (spec §9: "pre-register tracers in a fixed slot per
// worker").
type ThreadID uint64

// MainThread is the ThreadID a single-threaded frame loop should use.
const MainThread ThreadID = 0

const savedTracesInitialCap = 2048

const noParent = -1

// ScopeTraceInfo is the trace information for a single pushed scope.
type ScopeTraceInfo struct {
	StartT, EndT time.Time
	Tag          string
	TagHash      uint32

	// Only meaningful on collated traces.
	NCalls      uint32
	TotDuration time.Duration
}

// Duration returns the wall-clock span of the scope.
func (s ScopeTraceInfo) Duration() time.Duration {
	return s.EndT.Sub(s.StartT)
}

// TracerNode is one pushed-and-possibly-popped scope with a back
// pointer to its enclosing scope (noParent if it's a root).
type TracerNode struct {
	Info      ScopeTraceInfo
	ParentIdx int
}

// Tracer is a single thread's call tree recorder. Every method other
// than construction must stay branch-light: one time.Now(), a couple
// of writes, one stack-cursor update — no allocation beyond the
// occasional slice growth.
type Tracer struct {
	mu sync.Mutex

	savedTraces []TracerNode
	curActive   int // index into savedTraces, or noParent if none

	id ThreadID

	overflowLimiter *rate.Limiter
}

// NewTracer creates an empty tracer for the given thread slot.
func NewTracer(id ThreadID) *Tracer {
	return &Tracer{
		savedTraces:     make([]TracerNode, 0, savedTracesInitialCap),
		curActive:       noParent,
		id:              id,
		overflowLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Push opens a new scope as a child of whatever scope is currently
// active, and makes it the active scope.
func (t *Tracer) Push(tag string, tagHash uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.savedTraces) == cap(t.savedTraces) && t.overflowLimiter.Allow() {
		log.Printf("trace: tracer %d buffer growing past initial capacity (%d)", t.id, cap(t.savedTraces))
	}

	now := time.Now()
	t.savedTraces = append(t.savedTraces, TracerNode{
		Info: ScopeTraceInfo{
			StartT:  now,
			EndT:    now,
			Tag:     tag,
			TagHash: tagHash,
			NCalls:  1,
		},
		ParentIdx: t.curActive,
	})
	t.curActive = len(t.savedTraces) - 1
}

// Pop closes the currently active scope and restores its parent as
// active. Popping with nothing active is a programmer error.
func (t *Tracer) Pop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.curActive == noParent {
		panic("trace: popped scope trace while none is active")
	}
	now := time.Now()
	t.savedTraces[t.curActive].Info.EndT = now
	t.curActive = t.savedTraces[t.curActive].ParentIdx
}

// StartFrame clears the tracer's buffer ahead of a new frame. A scope
// still open at this point (pushed on a previous frame's tail, not yet
// popped) is preserved at slot 0 rather than discarded, so a span that
// straddles two frames is never silently dropped.
func (t *Tracer) StartFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.curActive != noParent {
		active := t.savedTraces[t.curActive].Info
		if active.StartT.Equal(active.EndT) {
			carried := t.savedTraces[t.curActive]
			carried.ParentIdx = noParent
			t.savedTraces = t.savedTraces[:0]
			t.savedTraces = append(t.savedTraces, carried)
			t.curActive = 0
			return
		}
	}
	t.savedTraces = t.savedTraces[:0]
	t.curActive = noParent
}

// SavedTraces returns the current frame's raw push/pop records, in
// scope-lifetime order (a snapshot copy, safe to read without the
// tracer's lock).
func (t *Tracer) SavedTraces() []TracerNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TracerNode, len(t.savedTraces))
	copy(out, t.savedTraces)
	return out
}

// Scope is an open traced scope; Close must be called exactly once,
// standing in for the source's Scope_Trace RAII guard.
type Scope struct {
	tracer *Tracer
}

// Close pops the scope this Scope instance opened.
func (s *Scope) Close() {
	s.tracer.Pop()
}

// Trace pushes a new scope on t and returns a handle whose Close pops
// it — typically used as `defer trace.Trace(t, "update_physics", hash).Close()`.
func Trace(t *Tracer, tag string, tagHash uint32) *Scope {
	t.Push(tag, tagHash)
	return &Scope{tracer: t}
}

// Registry owns one Tracer per ThreadID, created lazily on first use.
type Registry struct {
	mu      sync.Mutex
	tracers map[ThreadID]*Tracer
}

// NewRegistry creates an empty tracer registry.
func NewRegistry() *Registry {
	return &Registry{tracers: make(map[ThreadID]*Tracer)}
}

// Tracer returns the tracer for id, creating it on first access.
func (r *Registry) Tracer(id ThreadID) *Tracer {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tracers[id]
	if !ok {
		t = NewTracer(id)
		r.tracers[id] = t
	}
	return t
}

// StartFrame calls StartFrame on every tracer currently registered.
func (r *Registry) StartFrame() {
	r.mu.Lock()
	ids := make([]*Tracer, 0, len(r.tracers))
	for _, t := range r.tracers {
		ids = append(ids, t)
	}
	r.mu.Unlock()

	for _, t := range ids {
		t.StartFrame()
	}
}

// ThreadIDs returns every thread slot currently registered.
func (r *Registry) ThreadIDs() []ThreadID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ThreadID, 0, len(r.tracers))
	for id := range r.tracers {
		out = append(out, id)
	}
	return out
}
