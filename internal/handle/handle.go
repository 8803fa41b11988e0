// Package handle maps opaque integer tokens to values owned by the boundary.
//
// A Handle packs a slot index and a generation. Freed slots are reused, but
// their generation advances, so a destroyed handle never resolves to the
// value that later occupies its slot. Handle 0 (Nil) never resolves.
//
// A handle always fits in a uintptr: the slot takes the low half of the
// pointer width and the generation the high half, so handles survive a trip
// through uintptr_t on 32-bit targets too.
package handle

import (
	"errors"
	"sync"
)

var (
	ErrStale  = errors.New("handle: stale or unknown handle")
	ErrClosed = errors.New("handle: table closed")
	ErrFull   = errors.New("handle: table full")
)

// Handle is an opaque token. Callers must not interpret its bits.
type Handle uint64

// Nil is the "no handle" sentinel.
const Nil Handle = 0

const (
	handleBits = 32 << (^uintptr(0) >> 63)
	slotBits   = handleBits / 2

	slotMask = 1<<slotBits - 1
	genMask  = 1<<(handleBits-slotBits) - 1

	// maxSlots keeps slot+1 within slotMask.
	maxSlots = slotMask
)

func makeHandle(slot int, gen uint32) Handle {
	return Handle(uint64(gen&genMask)<<slotBits | uint64(slot+1))
}

func (h Handle) slot() int { return int(uint64(h)&slotMask) - 1 }

func (h Handle) generation() uint32 { return uint32(uint64(h) >> slotBits) }

// nextGeneration advances gen within genMask, skipping 0.
func nextGeneration(gen uint32) uint32 {
	gen = (gen + 1) & genMask
	if gen == 0 {
		gen = 1
	}
	return gen
}

type entry[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Table stores values of type T under generational handles. Safe for
// concurrent use.
type Table[T any] struct {
	mu       sync.RWMutex
	entries  []entry[T]
	freeList []int
	live     int
	closed   bool
}

// NewTable returns an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, 16),
		freeList: make([]int, 0, 16),
	}
}

// Insert stores value and returns its handle.
func (t *Table[T]) Insert(value T) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return Nil, ErrClosed
	}

	var slot int
	if n := len(t.freeList); n > 0 {
		slot = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
	} else {
		if len(t.entries) >= maxSlots {
			return Nil, ErrFull
		}
		t.entries = append(t.entries, entry[T]{gen: 1})
		slot = len(t.entries) - 1
	}

	e := &t.entries[slot]
	e.value = value
	e.live = true
	t.live++

	return makeHandle(slot, e.gen), nil
}

// Get resolves h.
func (t *Table[T]) Get(h Handle) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookupLocked(h)
	if !ok {
		var zero T
		return zero, ErrStale
	}
	return e.value, nil
}

// Remove drops h and returns the value it held. The handle is dead
// afterwards; removing it again returns ErrStale.
func (t *Table[T]) Remove(h Handle) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	e, ok := t.lookupLocked(h)
	if !ok {
		return zero, ErrStale
	}

	value := e.value
	e.value = zero
	e.live = false
	e.gen = nextGeneration(e.gen)
	t.live--
	t.freeList = append(t.freeList, h.slot())

	return value, nil
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Close drops every live value, passing each to release if it is non-nil,
// and rejects further inserts.
func (t *Table[T]) Close(release func(T)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true

	var zero T
	for i := range t.entries {
		e := &t.entries[i]
		if !e.live {
			continue
		}
		if release != nil {
			release(e.value)
		}
		e.value = zero
		e.live = false
	}
	t.entries = nil
	t.freeList = nil
	t.live = 0
}

func (t *Table[T]) lookupLocked(h Handle) (*entry[T], bool) {
	if h == Nil {
		return nil, false
	}
	slot := h.slot()
	if slot < 0 || slot >= len(t.entries) {
		return nil, false
	}
	e := &t.entries[slot]
	if !e.live || e.gen != h.generation() {
		return nil, false
	}
	return e, true
}
