// Package arena allocates the raw byte blocks that cross the native boundary.
//
// Every block handed out is recorded in an ownership ledger until it is
// released. Releasing nil is a no-op; releasing a pointer the ledger does not
// know (never allocated here, or already released) returns ErrUnknownBlock
// and leaves memory alone. Allocation failures are returned as errors and
// never abort the process.
package arena

import (
	"errors"
	"sync"
	"unsafe"
)

// Alignment is the byte alignment of every block an Allocator in this
// package returns.
const Alignment = 64

var (
	ErrOutOfMemory  = errors.New("arena: out of memory")
	ErrInvalidSize  = errors.New("arena: invalid size")
	ErrUnknownBlock = errors.New("arena: block not owned by this allocator")
)

// Allocator hands out and reclaims raw byte blocks. Implementations are safe
// for concurrent use on distinct blocks.
type Allocator interface {
	// Allocate returns an uninitialized block of exactly size usable bytes.
	// A zero size still yields a distinct, releasable pointer.
	Allocate(size int) (unsafe.Pointer, error)

	// Release returns a block obtained from Allocate. nil is a no-op.
	Release(ptr unsafe.Pointer) error

	// Stats reports ledger counters.
	Stats() Stats
}

// Stats is a point-in-time view of an allocator's ledger.
type Stats struct {
	LiveBlocks  int
	LiveBytes   int
	Allocations uint64
	Releases    uint64
	Failures    uint64
}

// Option configures an allocator.
type Option func(*options)

type options struct {
	limit int
}

// WithLimit caps the bytes that may be live at once. Allocations past the
// cap fail with ErrOutOfMemory. Zero or negative means no cap.
func WithLimit(maxLiveBytes int) Option {
	return func(o *options) {
		if maxLiveBytes > 0 {
			o.limit = maxLiveBytes
		}
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Bytes views a block as a byte slice of length size.
func Bytes(ptr unsafe.Pointer, size int) []byte {
	if ptr == nil || size <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), size)
}

// ledger tracks live blocks by address.
type ledger struct {
	mu     sync.Mutex
	limit  int
	blocks map[uintptr]int
	stats  Stats
}

func newLedger(o options) *ledger {
	return &ledger{
		limit:  o.limit,
		blocks: make(map[uintptr]int),
	}
}

// reserve checks size against the limit and counts the live bytes up front
// so concurrent allocations cannot overshoot it. Undo with unreserve.
func (l *ledger) reserve(size int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if size < 0 {
		l.stats.Failures++
		return ErrInvalidSize
	}
	if l.limit > 0 && l.stats.LiveBytes+size > l.limit {
		l.stats.Failures++
		return ErrOutOfMemory
	}
	l.stats.LiveBytes += size
	return nil
}

// unreserve undoes reserve after the backing allocation failed.
func (l *ledger) unreserve(size int) {
	l.mu.Lock()
	l.stats.LiveBytes -= size
	l.stats.Failures++
	l.mu.Unlock()
}

func (l *ledger) fail() {
	l.mu.Lock()
	l.stats.Failures++
	l.mu.Unlock()
}

func (l *ledger) commit(ptr unsafe.Pointer, size int) {
	l.mu.Lock()
	l.blocks[uintptr(ptr)] = size
	l.stats.LiveBlocks++
	l.stats.Allocations++
	l.mu.Unlock()
}

// remove forgets ptr and returns its size.
func (l *ledger) remove(ptr unsafe.Pointer) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	size, ok := l.blocks[uintptr(ptr)]
	if !ok {
		return 0, ErrUnknownBlock
	}
	delete(l.blocks, uintptr(ptr))
	l.stats.LiveBlocks--
	l.stats.LiveBytes -= size
	l.stats.Releases++
	return size, nil
}

func (l *ledger) snapshot() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}
