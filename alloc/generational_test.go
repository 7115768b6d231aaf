package alloc

import "testing"

func TestGenerationalAllocateSequential(t *testing.T) {
	n := 10
	a := NewGenerational(n)
	for i := 0; i < 2*n; i++ {
		h := a.Allocate()
		if int(h.Index) != i {
			t.Errorf("expected index %d, got %d", i, h.Index)
		}
		if h.Gen != 1 {
			t.Errorf("expected gen 1, got %d", h.Gen)
		}
	}
}

func TestGenerationalLifecycle(t *testing.T) {
	a := NewGenerational(4)
	h1 := a.Allocate()
	h2 := a.Allocate()
	a.Deallocate(h1)
	h3 := a.Allocate()

	if h3.Index != h1.Index {
		t.Errorf("expected reused index %d, got %d", h1.Index, h3.Index)
	}
	if h3.Gen != h1.Gen+1 {
		t.Errorf("expected gen %d, got %d", h1.Gen+1, h3.Gen)
	}
	if a.IsValid(h1) {
		t.Error("h1 should no longer be valid")
	}
	if !a.IsValid(h3) {
		t.Error("h3 should be valid")
	}
	if !a.IsValid(h2) {
		t.Error("h2 should still be valid")
	}
}

func TestGenerationalInvalidHandleNeverValid(t *testing.T) {
	a := NewGenerational(4)
	if a.IsValid(Invalid) {
		t.Error("the zero handle must never be valid")
	}
}

func TestGenerationalUncreatedEntityIsInvalid(t *testing.T) {
	a := NewGenerational(4)
	if a.IsValid(Handle{Index: 0, Gen: 1}) {
		t.Error("a handle for a slot that was never allocated should be invalid")
	}
}

func TestGenerationalGrowsPastInitialCapacity(t *testing.T) {
	n := 10
	a := NewGenerational(n)
	for i := 0; i < 3*n; i++ {
		a.Allocate()
	}
	if a.Capacity() < 3*n {
		t.Errorf("expected capacity to have grown to at least %d, got %d", 3*n, a.Capacity())
	}
}

func TestGenerationalDoubleFreeDetected(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on double free")
		}
	}()
	a := NewGenerational(4)
	h := a.Allocate()
	a.Deallocate(h)
	a.Deallocate(h)
}

func TestGenerationalDeallocateOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-range deallocate")
		}
	}()
	a := NewGenerational(4)
	a.Deallocate(Handle{Index: 11, Gen: 0})
}

func TestGenerationalDeallocateFutureGeneration(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on fabricated future generation")
		}
	}()
	a := NewGenerational(4)
	a.Allocate()
	a.Deallocate(Handle{Index: 0, Gen: 2})
}

func TestGenerationalReuseEmptySlot(t *testing.T) {
	a := NewGenerational(10)
	e1 := a.Allocate()
	a.Allocate()
	a.Deallocate(e1)
	e3 := a.Allocate()
	if e3.Index != 0 || e3.Gen != 2 {
		t.Errorf("expected {0,2}, got {%d,%d}", e3.Index, e3.Gen)
	}
	a.Deallocate(e3)
	e4 := a.Allocate()
	if e4.Index != 0 || e4.Gen != 3 {
		t.Errorf("expected {0,3}, got {%d,%d}", e4.Index, e4.Gen)
	}
}

func TestGenerationalLiveCount(t *testing.T) {
	a := NewGenerational(4)
	h1 := a.Allocate()
	a.Allocate()
	if a.LiveCount() != 2 {
		t.Errorf("expected live count 2, got %d", a.LiveCount())
	}
	a.Deallocate(h1)
	if a.LiveCount() != 1 {
		t.Errorf("expected live count 1, got %d", a.LiveCount())
	}
}
