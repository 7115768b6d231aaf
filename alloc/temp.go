package alloc

import (
	"unsafe"

	"github.com/silverweed/forge/engineerr"
)

// Temp is a bump-pointer stack allocator meant to be reset once per
// frame. It never grows past its initial capacity: running out of space
// is a frame-budget bug, not a recoverable condition (spec §4.2), so
// Alloc panics rather than reallocating.
type Temp struct {
	buf  []byte
	used int
	cap  int
	gen  Gen
}

// WithCapacity pre-reserves a contiguous byte buffer of the given size.
func WithCapacity(capBytes int) *Temp {
	return &Temp{
		buf: make([]byte, capBytes),
		cap: capBytes,
		gen: 1,
	}
}

// Used returns the number of bytes currently bumped out of the arena.
func (t *Temp) Used() int { return t.used }

// Cap returns the fixed byte capacity of the arena.
func (t *Temp) Cap() int { return t.cap }

// Generation returns the allocator's current reset generation. TempRefs
// stamped with an older generation are stale.
func (t *Temp) Generation() Gen { return t.gen }

// AllocBytesAligned bumps the pointer by n bytes aligned to align,
// returning the raw backing slice for the caller to write into. Out of
// memory is fatal.
func (t *Temp) AllocBytesAligned(n, align int) []byte {
	base := uintptr(unsafe.Pointer(&t.buf[0]))
	cur := base + uintptr(t.used)
	misalign := int(cur % uintptr(align))
	offset := 0
	if misalign != 0 {
		offset = align - misalign
	}

	if t.used+offset+n > t.cap {
		engineerr.Fatal("Temp allocator out of memory: requested %d bytes (align %d) with %d/%d used", n, align, t.used, t.cap)
	}

	start := t.used + offset
	t.used = start + n
	return t.buf[start : start+n : start+n]
}

// TempRef is a generation-tagged reference into a Temp allocator's
// backing buffer. Any access after the allocator's DeallocAll panics in
// debug mode rather than silently reading stale/garbage memory.
type TempRef[T any] struct {
	ptr    *T
	owner  *Temp
	minted Gen
}

// Alloc writes value into the arena and returns a reference tagged with
// the allocator's current generation.
func Alloc[T any](t *Temp, value T) TempRef[T] {
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))

	raw := t.AllocBytesAligned(size, align)
	ptr := (*T)(unsafe.Pointer(&raw[0]))
	*ptr = value

	return TempRef[T]{ptr: ptr, owner: t, minted: t.gen}
}

// Get dereferences the TempRef, panicking if the owning allocator has
// been reset since this ref was minted.
func (r TempRef[T]) Get() *T {
	if r.owner.gen != r.minted {
		engineerr.Fatal("TempRef accessed after DeallocAll (minted gen %d, current gen %d)", r.minted, r.owner.gen)
	}
	return r.ptr
}

// DeallocAll resets the bump pointer to zero and bumps the generation,
// invalidating every TempRef minted before this call.
func (t *Temp) DeallocAll() {
	t.used = 0
	t.gen++
}

// Exclusive runs fn with exclusive bulk access to the arena's remaining
// capacity via a freshly-zeroed []byte window, restoring the pre-call
// bump pointer on return. This mirrors the source's excl_temp_array
// mode (§4.2): taking the whole allocator for the scope's lifetime so no
// interleaved Alloc call can corrupt the bump pointer underneath it.
func (t *Temp) Exclusive(fn func(scratch []byte)) {
	start := t.used
	remaining := t.cap - start
	window := t.buf[start:t.cap:t.cap]
	clear(window)
	// Mark the whole arena as used while fn runs, so any Alloc on t from
	// inside fn fails as out of memory instead of overlapping the window.
	t.used = t.cap
	fn(window)
	t.used = start
	_ = remaining
}
