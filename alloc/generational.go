// Package alloc provides the two memory-management primitives the rest of
// the engine builds identity and per-frame scratch storage on: a
// generational-index allocator (Generational) and a bump-pointer per-frame
// arena (Temp).
package alloc

import "github.com/silverweed/forge/engineerr"

// Gen is the generation counter of a slot. Generation 0 is reserved so the
// zero Handle is never valid.
type Gen = uint32

// Index is the dense slot index of a Handle.
type Index = uint32

// Handle identifies a slot managed by a Generational allocator. It is the
// identity primitive entities (ecs.Entity) and other engine handles are
// built from.
type Handle struct {
	Index Index
	Gen   Gen
}

// Invalid is the reserved sentinel handle: it is never returned by
// allocate and never passes is_valid.
var Invalid = Handle{Index: 0, Gen: 0}

// Generational is a generation-tagged slot allocator: it hands out dense
// indices tagged with a generation, and can detect stale ("use after
// free") handles in O(1).
//
// Algorithm: an array of per-slot generations plus a LIFO free-slot stack.
// Allocate pops the free stack (growing the array if empty); deallocate
// bumps the slot's generation and pushes it back onto the free stack.
type Generational struct {
	gens      []Gen
	freeSlots []Index
}

// NewGenerational creates an allocator with initialCapacity pre-reserved
// slots, all free.
func NewGenerational(initialCapacity int) *Generational {
	g := &Generational{
		gens:      make([]Gen, initialCapacity),
		freeSlots: make([]Index, initialCapacity),
	}
	for i := range g.gens {
		g.gens[i] = 1
	}
	// Push in reverse order so index 0 is popped first (stable iteration
	// order for tests), matching the teacher's growth discipline.
	for i := 0; i < initialCapacity; i++ {
		g.freeSlots[i] = Index(initialCapacity - 1 - i)
	}
	return g
}

// Capacity returns the number of slots currently reserved (live + free).
func (g *Generational) Capacity() int {
	return len(g.gens)
}

// LiveCount returns the number of currently-allocated slots.
func (g *Generational) LiveCount() int {
	return len(g.gens) - len(g.freeSlots)
}

// Allocate returns a fresh handle. O(1) amortized; capacity doubles when
// the free list empties.
func (g *Generational) Allocate() Handle {
	idx := g.firstFreeSlot()
	return Handle{Index: idx, Gen: g.gens[idx]}
}

func (g *Generational) firstFreeSlot() Index {
	if n := len(g.freeSlots); n > 0 {
		idx := g.freeSlots[n-1]
		g.freeSlots = g.freeSlots[:n-1]
		return idx
	}

	oldSize := len(g.gens)
	newSize := oldSize * 2
	if newSize == 0 {
		newSize = 4
	}
	newGens := make([]Gen, newSize)
	copy(newGens, g.gens)
	for i := oldSize; i < newSize; i++ {
		newGens[i] = 1
	}
	g.gens = newGens

	// Reserve the slot right above oldSize for the caller; push the rest
	// of the newly available range onto the free stack in reverse order.
	g.freeSlots = make([]Index, 0, newSize-oldSize-1)
	for i := newSize - 1; i > oldSize; i-- {
		g.freeSlots = append(g.freeSlots, Index(i))
	}
	return Index(oldSize)
}

// Deallocate releases h back to the allocator. h must be the current
// valid handle for its slot; violations are fatal (double-free, stale
// generation, fabricated future generation, out-of-range index).
func (g *Generational) Deallocate(h Handle) {
	if int(h.Index) >= len(g.gens) {
		engineerr.Fatal("Tried to deallocate a Handle whose index (%d) is greater than the allocator's size (%d)", h.Index, len(g.gens))
	}
	cur := g.gens[h.Index]
	if cur > h.Gen {
		engineerr.Fatal("Tried to deallocate an old Handle (gen %d, current %d)! Double free?", h.Gen, cur)
	}
	if cur < h.Gen {
		engineerr.Fatal("Tried to deallocate a Handle with a generation (%d) greater than current (%d)", h.Gen, cur)
	}
	if g.isFree(h.Index) {
		engineerr.Fatal("Tried to deallocate a Handle (index %d) that is not allocated! Double free?", h.Index)
	}

	// Never wrap: wraparound would let a stale old handle become valid
	// again, so reaching the maximum generation is fatal instead.
	if cur == ^Gen(0) {
		engineerr.Fatal("Generation overflow on slot %d: cannot deallocate without risking handle aliasing", h.Index)
	}
	g.gens[h.Index] = cur + 1
	g.freeSlots = append(g.freeSlots, h.Index)
}

func (g *Generational) isFree(idx Index) bool {
	for _, s := range g.freeSlots {
		if s == idx {
			return true
		}
	}
	return false
}

// IsValid is a pure query: it never mutates allocator state.
func (g *Generational) IsValid(h Handle) bool {
	if int(h.Index) >= len(g.gens) {
		return false
	}
	if g.gens[h.Index] != h.Gen {
		return false
	}
	return !g.isFree(h.Index)
}
