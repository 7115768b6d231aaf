package ecs

import "github.com/silverweed/forge/alloc"

// EntityDestroyed is raised (via NotifyDestroyed) for every entity that
// entered the pending-destroy set since the last DestroyPending call.
type EntityDestroyed struct {
	Entity Entity
}

// World composes a generational allocator for entity identity with a
// Store for component data, and defers destruction to a single
// once-per-frame finalization point (spec §4.4).
//
// Grounded on inle_ecs/src/ecs_world.rs's Ecs_World: new_entity/
// destroy_entity/destroy_pending/notify_destroyed and the two-set
// double-buffering destroy_pending does between
// entities_pending_destroy and entities_pending_destroy_notify.
type World struct {
	alloc *alloc.Generational
	store *Store

	entities []Entity

	pendingDestroy       []Entity
	pendingDestroyNotify map[Entity]struct{}
}

// NewWorld creates an empty world with the given initial entity capacity.
func NewWorld(initialCapacity int) *World {
	return &World{
		alloc:                alloc.NewGenerational(initialCapacity),
		store:                NewStore(),
		pendingDestroyNotify: make(map[Entity]struct{}),
	}
}

// Store exposes the underlying component store so package-level
// Register/Add/Get/etc. generic functions can operate on this world.
func (w *World) Store() *Store { return w.store }

// NewEntity allocates a fresh entity handle.
func (w *World) NewEntity() Entity {
	e := w.alloc.Allocate()
	w.entities = append(w.entities, e)
	return e
}

// Entities returns every currently live entity, including ones pending
// destruction: they stay in this list until DestroyPending finalizes
// them, even after IsValid has started reporting them as invalid.
func (w *World) Entities() []Entity {
	return w.entities
}

// IsValid reports whether e is a live, not-yet-destroyed entity. An
// entity stays valid through the frame it was marked via DestroyEntity —
// it only goes invalid once DestroyPending moves it into the finalize
// queue (spec §4.4: deferred destruction by one cycle).
func (w *World) IsValid(e Entity) bool {
	if !w.alloc.IsValid(e) {
		return false
	}
	for _, pd := range w.pendingDestroy {
		if pd == e {
			return false
		}
	}
	return true
}

// DestroyEntity marks e for destruction; the actual deallocation and
// component removal happens at the second DestroyPending call after
// this, not immediately (spec §4.4: deferred destruction).
func (w *World) DestroyEntity(e Entity) {
	w.pendingDestroyNotify[e] = struct{}{}
}

// NotifyDestroyed returns every entity marked for destruction since the
// last DestroyPending call, for callers to broadcast as an event before
// the entities are actually finalized.
func (w *World) NotifyDestroyed() []Entity {
	out := make([]Entity, 0, len(w.pendingDestroyNotify))
	for e := range w.pendingDestroyNotify {
		out = append(out, e)
	}
	return out
}

// DestroyPending finalizes every entity that the previous DestroyPending
// call moved into the pending-destroy set: removes all of its components
// and deallocates its identity slot. It then moves the entities queued
// by DestroyEntity since the previous call into the pending-destroy set,
// to be finalized by the next call. Each queued entity is destroyed
// exactly once, even if DestroyEntity was called on it multiple times
// before this runs. Returns the entities that were just destroyed.
func (w *World) DestroyPending() []Entity {
	for e := range w.pendingDestroy2set() {
		w.store.RemoveAll(e)
		w.alloc.Deallocate(e)
		w.removeFromEntityList(e)
	}
	destroyed := w.pendingDestroy
	// Whatever was notified-but-not-yet-finalized this cycle becomes next
	// cycle's destroy set, mirroring the Rust source's double-buffering:
	// notify happens one frame, finalize happens the next.
	w.pendingDestroy = make([]Entity, 0, len(w.pendingDestroyNotify))
	for e := range w.pendingDestroyNotify {
		w.pendingDestroy = append(w.pendingDestroy, e)
	}
	w.pendingDestroyNotify = make(map[Entity]struct{})
	return destroyed
}

func (w *World) pendingDestroy2set() map[Entity]struct{} {
	set := make(map[Entity]struct{}, len(w.pendingDestroy))
	for _, e := range w.pendingDestroy {
		set[e] = struct{}{}
	}
	return set
}

func (w *World) removeFromEntityList(e Entity) {
	for i, other := range w.entities {
		if other == e {
			last := len(w.entities) - 1
			w.entities[i] = w.entities[last]
			w.entities = w.entities[:last]
			return
		}
	}
}
