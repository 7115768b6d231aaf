// Package ecs provides the component store (C3) and entity world (C4):
// dense-indexed component storage keyed by type tag, layered on top of a
// generational allocator for entity identity.
//
// Grounded on ecs_engine/src/ecs/comp_mgr.rs: the bitmap is the source of
// truth for membership, dense per-type arrays are a cache-friendly
// payload cache, and zero-sized ("tag") components carry no payload at
// all. Unlike the Rust source, every registered type — zero-sized or
// not — is assigned a distinct bitmap bit: comp_mgr.rs only increments
// its handle counter for non-zero-sized types, which lets two
// consecutively-registered tag components alias the same bit. That's a
// latent bug there, not a property this spec asks us to keep, so handles
// here are always unique per registered type.
package ecs

import (
	"reflect"

	"github.com/silverweed/forge/alloc"
	"github.com/silverweed/forge/engineerr"
)

// Entity is a handle produced by a World via its underlying Generational
// allocator.
type Entity = alloc.Handle

type componentHandle int

// denseStorage is the dense, insertion-ordered backing array for a single
// non-zero-sized component type.
type denseStorage[T any] struct {
	data       []T
	entToSlot  map[Entity]int
	slotToEnt  []Entity
}

func newDenseStorage[T any]() *denseStorage[T] {
	return &denseStorage[T]{
		entToSlot: make(map[Entity]int),
	}
}

func (s *denseStorage[T]) add(e Entity, value T) *T {
	if _, ok := s.entToSlot[e]; ok {
		engineerr.Fatal("entity %v already has component %T", e, value)
	}
	idx := len(s.data)
	s.data = append(s.data, value)
	s.slotToEnt = append(s.slotToEnt, e)
	s.entToSlot[e] = idx
	return &s.data[idx]
}

func (s *denseStorage[T]) get(e Entity) (*T, bool) {
	idx, ok := s.entToSlot[e]
	if !ok {
		return nil, false
	}
	return &s.data[idx], true
}

// removeEntity removes e's component via swap-remove, which is O(1) but
// changes iteration order — documented in spec §4.3 as the implementer's
// choice.
func (s *denseStorage[T]) removeEntity(e Entity) {
	idx, ok := s.entToSlot[e]
	if !ok {
		engineerr.Fatal("tried to remove inexistent component %T from entity %v", *new(T), e)
	}
	last := len(s.data) - 1
	if idx != last {
		s.data[idx] = s.data[last]
		s.slotToEnt[idx] = s.slotToEnt[last]
		s.entToSlot[s.slotToEnt[idx]] = idx
	}
	s.data = s.data[:last]
	s.slotToEnt = s.slotToEnt[:last]
	delete(s.entToSlot, e)
}

func (s *denseStorage[T]) hasEntity(e Entity) bool {
	_, ok := s.entToSlot[e]
	return ok
}

// untypedStorage is the type-erased interface the Store uses to manage
// per-type storages it cannot name at compile time (remove_all needs to
// walk every registered type an entity happens to carry).
type untypedStorage interface {
	removeEntityDyn(e Entity)
	hasEntityDyn(e Entity) bool
}

func (s *denseStorage[T]) removeEntityDyn(e Entity) { s.removeEntity(e) }
func (s *denseStorage[T]) hasEntityDyn(e Entity) bool { return s.hasEntity(e) }

// Store is a component store keyed by type tag (spec §4.3).
type Store struct {
	handles    map[reflect.Type]componentHandle
	zeroSized  map[componentHandle]bool
	storages   map[componentHandle]untypedStorage
	nextHandle componentHandle

	// indexed by entity.Index
	entityCompSet []bitset

	// DebugChecks gates the bitmap/storage consistency assertions spec §7
	// requires in debug builds. Go has no separate debug/release
	// compilation profile, so this is a runtime switch instead of a
	// #[cfg(debug_assertions)] attribute; default on.
	DebugChecks bool
}

// NewStore creates an empty component store.
func NewStore() *Store {
	return &Store{
		handles:     make(map[reflect.Type]componentHandle),
		zeroSized:   make(map[componentHandle]bool),
		storages:    make(map[componentHandle]untypedStorage),
		DebugChecks: true,
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func isZeroSized[T any]() bool {
	var z T
	return sizeOf(z) == 0
}

// sizeOf approximates Rust's size_of::<T>() == 0 check: a struct{} (or
// any type built only from struct{} fields) has zero size.
func sizeOf(v interface{}) uintptr {
	return reflect.TypeOf(v).Size()
}

// Register must be called once per type before use; double registration
// is fatal (spec §4.3).
func Register[T any](s *Store) {
	t := typeOf[T]()
	if _, ok := s.handles[t]; ok {
		engineerr.Fatal("component %v registered twice!", t)
	}
	h := s.nextHandle
	s.nextHandle++
	s.handles[t] = h

	if isZeroSized[T]() {
		s.zeroSized[h] = true
	} else {
		s.storages[h] = newDenseStorage[T]()
	}
}

func getHandle[T any](s *Store) componentHandle {
	t := typeOf[T]()
	h, ok := s.handles[t]
	if !ok {
		engineerr.Fatal("component %v was not registered!", t)
	}
	return h
}

func (s *Store) ensureCompSet(e Entity) *bitset {
	idx := int(e.Index)
	for len(s.entityCompSet) <= idx {
		s.entityCompSet = append(s.entityCompSet, bitset{})
	}
	return &s.entityCompSet[idx]
}

func (s *Store) compSet(e Entity) *bitset {
	idx := int(e.Index)
	if idx >= len(s.entityCompSet) {
		return &bitset{}
	}
	return &s.entityCompSet[idx]
}

// Add writes value into T's dense array for entity, records the
// entity->slot mapping, and sets the comp-bit. Duplicate-add is fatal.
func Add[T any](s *Store, e Entity, value T) *T {
	h := getHandle[T](s)
	bits := s.ensureCompSet(e)
	if bits.Get(int(h)) {
		engineerr.Fatal("entity %v already has component %v!", e, typeOf[T]())
	}
	bits.Set(int(h), true)

	if s.zeroSized[h] {
		return &value
	}
	storage := s.storages[h].(*denseStorage[T])
	return storage.add(e, value)
}

// Has checks the bitmap; in debug mode it also asserts consistency with
// the dense store for non-zero-sized T.
func Has[T any](s *Store, e Entity) bool {
	h := getHandle[T](s)
	bitSet := s.compSet(e).Get(int(h))

	if s.DebugChecks && !s.zeroSized[h] {
		storage := s.storages[h].(*denseStorage[T])
		if storage.hasEntity(e) != bitSet {
			engineerr.Fatal("bitmap/storage disagreement for component %v on entity %v", typeOf[T](), e)
		}
	}
	return bitSet
}

// Get returns a reference into the dense array if present. For
// zero-sized T it returns a pointer to a shared unit value when the bit
// is set (there is no per-entity payload to return).
func Get[T any](s *Store, e Entity) (*T, bool) {
	h := getHandle[T](s)
	if s.zeroSized[h] {
		if s.compSet(e).Get(int(h)) {
			return new(T), true
		}
		return nil, false
	}
	storage := s.storages[h].(*denseStorage[T])
	return storage.get(e)
}

// Remove clears the bit and releases the slot. Iteration order over the
// type's dense array may change afterward (spec §4.3).
func Remove[T any](s *Store, e Entity) {
	h := getHandle[T](s)
	s.compSet(e).Set(int(h), false)
	if !s.zeroSized[h] {
		s.storages[h].(*denseStorage[T]).removeEntity(e)
	}
}

// RemoveAll removes every component present on entity according to the
// bitmap, in a single pass.
func (s *Store) RemoveAll(e Entity) {
	bits := s.compSet(e)
	for _, h := range bits.SetBits() {
		if storage, ok := s.storages[componentHandle(h)]; ok {
			storage.removeEntityDyn(e)
		}
	}
	*bits = bitset{}
}

// Iter yields the dense sequence for non-zero-sized T, in insertion
// order. It yields an empty slice for zero-sized T (there is no payload
// to iterate).
func Iter[T any](s *Store) []T {
	h := getHandle[T](s)
	if s.zeroSized[h] {
		return nil
	}
	storage := s.storages[h].(*denseStorage[T])
	out := make([]T, len(storage.data))
	copy(out, storage.data)
	return out
}

// IterMut exposes the dense array directly for in-place mutation.
// Iteration is invalidated by any structural mutation of that storage
// (spec §4.3) — callers must not Add/Remove for T while holding this
// slice.
func IterMut[T any](s *Store) []T {
	h := getHandle[T](s)
	if s.zeroSized[h] {
		return nil
	}
	return s.storages[h].(*denseStorage[T]).data
}
