// Package segment implements the Universal Machine's segmented memory:
// a mapping from 32-bit segment identifiers to owned arrays of 32-bit
// words, with identifier reuse governed by a LIFO free-identifier pool.
//
// Segment 0 is permanently mapped for the lifetime of a Store and always
// holds the currently executing code. Every other identifier is allocated
// on demand by Map and may be Unmap'd and later reissued; reuse is not an
// optimisation here, it is required behaviour — well-formed Universal
// Machine programs depend on identifiers staying within a bounded range
// across long runs.
//
// Out-of-range offsets and unmapped identifiers are not checked on the hot
// Load/Store path: a misbehaving program triggers a Go slice-index panic,
// which the caller (internal/um) recovers at the top of its dispatch loop
// and reports as a segmentation fault.
package segment

import "errors"

// ErrAllocFailed is returned by Map when a requested segment exceeds the
// store's configured word limit. Go's allocator essentially never fails a
// request this small in practice; the limit exists so that the
// allocation-failure-is-fatal path has an exercisable path in tests.
var ErrAllocFailed = errors.New("segment: allocation failed")

// ErrClosed is returned by Map when it is called after Close.
var ErrClosed = errors.New("segment: store is closed")

// Segment is an owned, variable-length sequence of words.
type Segment []uint32

// Store is a mapping from segment identifiers to owned Segments, plus the
// LIFO pool of identifiers released by Unmap and available for reuse.
type Store struct {
	spine []Segment // spine[0] is segment 0; nil entries are unmapped slots
	free  []uint32  // LIFO stack of reusable identifiers
	limit uint64    // 0 means unlimited; see ErrAllocFailed
	closed bool
}

// New creates a store whose segment 0 is initial. The Store takes ownership
// of initial; the caller must not retain or mutate it afterwards through
// any alias other than the Store itself.
func New(initial Segment) *Store {
	return &Store{spine: []Segment{initial}}
}

// NewWithLimit is like New but rejects any single Map request wider than
// maxWords with ErrAllocFailed. Used by tests to exercise the fatal
// allocation-failure path without actually exhausting host memory.
func NewWithLimit(initial Segment, maxWords uint64) *Store {
	s := New(initial)
	s.limit = maxWords
	return s
}

// Map allocates a fresh, zeroed segment of n words and returns its newly
// assigned identifier. It never returns identifier 0.
//
// If the free pool holds a previously unmapped identifier, that identifier
// is reused (LIFO) instead of growing the spine: the free stack is always
// checked before the spine is ever extended.
func (s *Store) Map(n uint32) (uint32, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.limit != 0 && uint64(n) > s.limit {
		return 0, ErrAllocFailed
	}

	fresh := make(Segment, n)

	if len(s.free) > 0 {
		last := len(s.free) - 1
		id := s.free[last]
		s.free = s.free[:last]
		s.spine[id] = fresh
		return id, nil
	}

	id := uint32(len(s.spine))
	s.spine = append(s.spine, fresh) // append grows the spine geometrically
	return id, nil
}

// Unmap releases id, returning its backing segment and pushing id onto the
// free pool for reuse. Behaviour is undefined if id is 0 or already
// unmapped; this implementation drops the backing segment and still pushes
// id, which is the cheapest safe thing to do without adding a runtime check
// to a path that does not require one.
func (s *Store) Unmap(id uint32) {
	s.spine[id] = nil
	s.free = append(s.free, id)
}

// Load returns segment[id][off]. Panics (via normal Go slice indexing) if
// id is out of range, unmapped, or off is out of range for the segment.
func (s *Store) Load(id, off uint32) uint32 {
	return s.spine[id][off]
}

// Store writes word into segment[id][off]. Same bounds behaviour as Load.
func (s *Store) Store(id, off, value uint32) {
	s.spine[id][off] = value
}

// Len returns the word length of segment id. Panics on an invalid id.
func (s *Store) Len(id uint32) int {
	return len(s.spine[id])
}

// DuplicateIntoZero replaces segment 0 with an independently-owned deep
// copy of segment id. It is a no-op when id is 0. The old segment 0 is
// dropped (Go's GC reclaims it); a subsequent write through id must never
// be visible in segment 0 afterwards, and vice versa — the deep copy is
// what guarantees that.
func (s *Store) DuplicateIntoZero(id uint32) {
	if id == 0 {
		return
	}
	src := s.spine[id]
	dup := make(Segment, len(src))
	copy(dup, src)
	s.spine[0] = dup
}

// Close releases every mapped segment, the spine, and the free pool. A
// Store must not be used after Close: Map returns ErrClosed, and Load,
// Store, Len, Unmap and DuplicateIntoZero of a non-zero id panic since the
// spine becomes nil.
func (s *Store) Close() {
	s.spine = nil
	s.free = nil
	s.closed = true
}
