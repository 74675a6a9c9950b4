package segment

import "testing"

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	s := New(Segment{0, 0, 0})
	s.Store(0, 1, 0x41)
	assert(t, s.Load(0, 1) == 0x41, "load must see the value just stored")
}

func TestMapNeverReturnsZero(t *testing.T) {
	s := New(Segment{})
	for i := 0; i < 10; i++ {
		id, err := s.Map(4)
		assert(t, err == nil, "map failed: %v", err)
		assert(t, id != 0, "map must never hand out identifier 0")
	}
}

func TestMapAllocatesZeroedSegment(t *testing.T) {
	s := New(Segment{})
	id, err := s.Map(4)
	assert(t, err == nil, "map failed: %v", err)
	for off := uint32(0); off < 4; off++ {
		assert(t, s.Load(id, off) == 0, "freshly mapped words must be zero")
	}
}

func TestUnmapReuseIsLIFO(t *testing.T) {
	s := New(Segment{})
	a, _ := s.Map(1)
	b, _ := s.Map(1)
	c, _ := s.Map(1)

	s.Unmap(b)
	s.Unmap(c)

	// Free pool is now [b, c] (push order); popping must yield c then b.
	first, err := s.Map(1)
	assert(t, err == nil, "map failed: %v", err)
	assert(t, first == c, "expected LIFO reuse to hand back c (%d) first, got %d", c, first)

	second, err := s.Map(1)
	assert(t, err == nil, "map failed: %v", err)
	assert(t, second == b, "expected LIFO reuse to hand back b (%d) second, got %d", b, second)

	assert(t, a != b && a != c, "sanity: a must remain distinct")
}

func TestBoundedGrowthAfterMapUnmapCycles(t *testing.T) {
	s := New(Segment{})
	const n = 50
	ids := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		id, err := s.Map(1)
		assert(t, err == nil, "map failed: %v", err)
		ids = append(ids, id)
	}
	for _, id := range ids {
		s.Unmap(id)
	}
	// After N maps followed by N unmaps, the live count is back to just
	// segment 0; a further n maps must not grow identifiers past the
	// high-water mark already reached (P5).
	hiWater := uint32(0)
	for i := 0; i < n; i++ {
		id, err := s.Map(1)
		assert(t, err == nil, "map failed: %v", err)
		if id > hiWater {
			hiWater = id
		}
	}
	assert(t, hiWater <= uint32(n), "identifier space grew past bound: %d > %d", hiWater, n)
}

func TestDuplicateIntoZeroIsIndependentCopy(t *testing.T) {
	s := New(Segment{0xAAAA})
	id, _ := s.Map(1)
	s.Store(id, 0, 0x1234)

	s.DuplicateIntoZero(id)
	assert(t, s.Load(0, 0) == 0x1234, "segment 0 must reflect the duplicated contents")

	// Writing through the source id afterwards must not affect segment 0.
	s.Store(id, 0, 0x9999)
	assert(t, s.Load(0, 0) == 0x1234, "segment 0 must be independent of later writes to the source")

	// And the reverse: writing to segment 0 must not affect the source.
	s.Store(0, 0, 0x0000)
	assert(t, s.Load(id, 0) == 0x9999, "source segment must be independent of later writes to segment 0")
}

func TestDuplicateIntoZeroOfZeroIsNoop(t *testing.T) {
	s := New(Segment{1, 2, 3})
	s.DuplicateIntoZero(0)
	assert(t, s.Load(0, 0) == 1 && s.Load(0, 1) == 2 && s.Load(0, 2) == 3, "duplicating segment 0 into itself must be a no-op")
}

func TestAllocationFailureIsFatalError(t *testing.T) {
	s := NewWithLimit(Segment{}, 4)
	_, err := s.Map(5)
	assert(t, err == ErrAllocFailed, "expected ErrAllocFailed, got %v", err)

	_, err = s.Map(4)
	assert(t, err == nil, "map at the limit should still succeed, got %v", err)
}

func TestOutOfRangeLoadPanics(t *testing.T) {
	s := New(Segment{0})
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic on out-of-range load")
		}
	}()
	s.Load(0, 99)
}

func TestUnmappedIdentifierPanics(t *testing.T) {
	s := New(Segment{})
	id, _ := s.Map(1)
	s.Unmap(id)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic when dereferencing an unmapped identifier")
		}
	}()
	s.Load(id, 0)
}
