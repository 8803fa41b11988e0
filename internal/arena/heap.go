package arena

import (
	"sync"
	"unsafe"
)

// maxHeapBlock bounds a single Heap block. The Go runtime treats heap
// exhaustion as fatal, so requests that cannot plausibly succeed are refused
// here instead; use WithLimit for a tighter bound.
const maxHeapBlock uint64 = 1 << 40

// Heap allocates blocks from the Go heap, aligned to Alignment. Owned
// blocks are kept reachable by the allocator until released, so the
// garbage collector never reclaims memory the caller still holds.
//
// Heap blocks are Go memory: they may be handed to Go code and to
// syscall/js, but not retained by C code. Use CHeap for that.
type Heap struct {
	ledger *ledger

	mu   sync.Mutex
	pins map[uintptr][]byte
}

var _ Allocator = (*Heap)(nil)

// NewHeap returns a Go-heap allocator.
func NewHeap(opts ...Option) *Heap {
	return &Heap{
		ledger: newLedger(applyOptions(opts)),
		pins:   make(map[uintptr][]byte),
	}
}

// Allocate implements Allocator.
func (h *Heap) Allocate(size int) (ptr unsafe.Pointer, err error) {
	if size > 0 && uint64(size) > maxHeapBlock {
		h.ledger.fail()
		return nil, ErrOutOfMemory
	}
	if err := h.ledger.reserve(size); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			h.ledger.unreserve(size)
			ptr, err = nil, ErrOutOfMemory
		}
	}()

	buf := alignedBuffer(size)
	ptr = unsafe.Pointer(unsafe.SliceData(buf))

	h.mu.Lock()
	h.pins[uintptr(ptr)] = buf
	h.mu.Unlock()
	h.ledger.commit(ptr, size)

	return ptr, nil
}

// Release implements Allocator.
func (h *Heap) Release(ptr unsafe.Pointer) error {
	if ptr == nil {
		return nil
	}
	if _, err := h.ledger.remove(ptr); err != nil {
		return err
	}

	h.mu.Lock()
	delete(h.pins, uintptr(ptr))
	h.mu.Unlock()
	return nil
}

// Stats implements Allocator.
func (h *Heap) Stats() Stats {
	return h.ledger.snapshot()
}

// alignedBuffer over-allocates by Alignment and reslices so the first byte
// sits on an Alignment boundary. At least one byte is always backed.
func alignedBuffer(size int) []byte {
	n := max(size, 1)
	buf := make([]byte, n+Alignment)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	shift := int((Alignment - addr%Alignment) % Alignment)
	return buf[shift : shift+n : shift+n]
}
