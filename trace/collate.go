package trace

import (
	"log"
	"time"

	"golang.org/x/time/rate"
)

// maxNCalls and maxDurationNanos bound the bit-packed final node: 24
// bits for the call count, 40 bits for the duration in nanoseconds
// (~1099 seconds), matching Scope_Trace_Info_Final in the source.
const (
	maxNCalls        = 1 << 24
	maxDurationNanos = 1 << 40
)

var truncationLimiter = rate.NewLimiter(rate.Every(time.Second), 1)

// ScopeTraceInfoFinal is the memory-trimmed form of ScopeTraceInfo used
// once traces are collated: a tag plus one word packing n_calls into
// its high 24 bits and a duration-in-nanoseconds into its low 40 bits.
type ScopeTraceInfoFinal struct {
	Tag                  string
	nCallsAndTotDuration uint64
}

// NewScopeTraceInfoFinal packs nCalls and totDuration, saturating (and
// logging, rate-limited) if either exceeds its bit budget.
func NewScopeTraceInfoFinal(tag string, nCalls uint32, totDuration time.Duration) ScopeTraceInfoFinal {
	if nCalls >= maxNCalls {
		if truncationLimiter.Allow() {
			log.Printf("trace: truncating n_calls from %d to %d for tag %q", nCalls, maxNCalls-1, tag)
		}
		nCalls = maxNCalls - 1
	}
	nanos := totDuration.Nanoseconds()
	truncated := uint64(nanos)
	if truncated >= maxDurationNanos {
		truncated = maxDurationNanos - 1
		if truncationLimiter.Allow() {
			log.Printf("trace: truncating duration nanos from %d to %d for tag %q", nanos, truncated, tag)
		}
	}
	return ScopeTraceInfoFinal{
		Tag:                  tag,
		nCallsAndTotDuration: (uint64(nCalls) << 40) | truncated,
	}
}

// TotDuration unpacks the duration half of the word.
func (s ScopeTraceInfoFinal) TotDuration() time.Duration {
	return time.Duration(s.nCallsAndTotDuration & (maxDurationNanos - 1))
}

// NCalls unpacks the call-count half of the word.
func (s ScopeTraceInfoFinal) NCalls() uint32 {
	return uint32(s.nCallsAndTotDuration >> 40)
}

// TracerNodeFinal is one collated call-stack entry: a tag, its summed
// call count/duration, and a back-pointer into the same collated
// slice (noParent for a root).
type TracerNodeFinal struct {
	Info      ScopeTraceInfoFinal
	ParentIdx int
}

func hashChain(nodes []TracerNode, idx int) uint32 {
	x := uint32(fnv1aOffset32)
	for idx != noParent {
		x ^= nodes[idx].Info.TagHash
		x *= fnv1aPrime32
		idx = nodes[idx].ParentIdx
	}
	return x
}

type tagMapInfo struct {
	tag         string
	nCalls      uint32
	totDuration time.Duration
	parentIdx   int
}

// Collate merges nodes with identical call stacks (same chain of
// tag_hash back to the root) into one record with summed n_calls and
// tot_duration, in first-seen order.
func Collate(nodes []TracerNode) []TracerNodeFinal {
	hashes := make([]uint32, len(nodes))
	for i := range nodes {
		hashes[i] = hashChain(nodes, i)
	}

	tagsOrdered := make([]uint32, 0, len(nodes)/10+1)
	tagMap := make(map[uint32]*tagMapInfo)
	idxMap := make(map[uint32]int)

	for i, node := range nodes {
		hash := hashes[i]
		entry, ok := tagMap[hash]
		if !ok {
			parentIdx := noParent
			if node.ParentIdx != noParent {
				parentIdx = idxMap[hashes[node.ParentIdx]]
			}
			entry = &tagMapInfo{tag: node.Info.Tag, parentIdx: parentIdx}
			tagMap[hash] = entry
		}
		entry.nCalls++
		entry.totDuration += node.Info.Duration()
		if entry.nCalls == 1 {
			idxMap[hash] = len(tagsOrdered)
			tagsOrdered = append(tagsOrdered, hash)
		}
	}

	out := make([]TracerNodeFinal, len(tagsOrdered))
	for i, hash := range tagsOrdered {
		info := tagMap[hash]
		out[i] = TracerNodeFinal{
			Info:      NewScopeTraceInfoFinal(info.tag, info.nCalls, info.totDuration),
			ParentIdx: info.parentIdx,
		}
	}
	return out
}

// TraceTree is one reconstructed call-tree node plus its children, in
// the order BuildTraceTrees (and, after SortTraceTrees, descending
// duration) produced them.
type TraceTree struct {
	Node     *TracerNodeFinal
	Children []*TraceTree
}

// BuildTraceTrees rebuilds a forest from a collated, flat slice. It
// exploits the property that saved_traces / collated output always
// lists a node's children after the node itself, so a single reverse
// pass never needs to unwrap an already-consumed child.
func BuildTraceTrees(traces []TracerNodeFinal) []*TraceTree {
	var forest []*TraceTree
	if len(traces) == 0 {
		return forest
	}

	trees := make([]*TraceTree, len(traces))
	for i := range traces {
		trees[i] = &TraceTree{Node: &traces[i]}
	}

	for i := len(traces) - 1; i >= 0; i-- {
		node := traces[i]
		tree := trees[i]
		if node.ParentIdx != noParent {
			trees[node.ParentIdx].Children = append(trees[node.ParentIdx].Children, tree)
		} else {
			forest = append(forest, tree)
		}
	}

	return forest
}

// SortTraceTrees sorts every tree's children, recursively, by
// descending total duration.
func SortTraceTrees(trees []*TraceTree) {
	var sortInternal func(tree *TraceTree)
	sortInternal = func(tree *TraceTree) {
		sortByDescendingDuration(tree.Children)
		for _, c := range tree.Children {
			sortInternal(c)
		}
	}
	for _, tree := range trees {
		sortInternal(tree)
	}
}

func sortByDescendingDuration(children []*TraceTree) {
	for i := 1; i < len(children); i++ {
		for j := i; j > 0 && children[j].Node.Info.TotDuration() > children[j-1].Node.Info.TotDuration(); j-- {
			children[j], children[j-1] = children[j-1], children[j]
		}
	}
}

// FlattenTraces merges collated nodes by tag name, losing parent
// information — the "hottest functions" flat view.
func FlattenTraces(traces []TracerNodeFinal) []TracerNodeFinal {
	order := make([]string, 0, len(traces))
	byTag := make(map[string]*TracerNodeFinal)

	for _, tr := range traces {
		acc, ok := byTag[tr.Info.Tag]
		if !ok {
			zero := TracerNodeFinal{Info: NewScopeTraceInfoFinal(tr.Info.Tag, 0, 0), ParentIdx: noParent}
			byTag[tr.Info.Tag] = &zero
			acc = &zero
			order = append(order, tr.Info.Tag)
		}
		acc.Info = NewScopeTraceInfoFinal(
			acc.Info.Tag,
			acc.Info.NCalls()+tr.Info.NCalls(),
			acc.Info.TotDuration()+tr.Info.TotDuration(),
		)
	}

	out := make([]TracerNodeFinal, len(order))
	for i, tag := range order {
		out[i] = *byTag[tag]
	}
	return out
}

// TotalTracedTime sums the duration of every root scope (the scopes
// with no parent — summing non-roots would double-count nested time).
func TotalTracedTime(traces []TracerNodeFinal) time.Duration {
	var total time.Duration
	for _, tr := range traces {
		if tr.ParentIdx == noParent {
			total += tr.Info.TotDuration()
		}
	}
	return total
}
