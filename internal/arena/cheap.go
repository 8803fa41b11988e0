//go:build cgo

package arena

/*
#include <stdint.h>
#include <stdlib.h>

// cgo's C.malloc aborts the process when malloc returns NULL; this wrapper
// hands NULL back so the caller can report the failure instead.
//
// Blocks are over-allocated and aligned by hand, with the raw pointer stored
// in the word just below the aligned address. align must be a power of two
// no smaller than sizeof(void*).
static void* arena_malloc(size_t n, size_t align) {
	if (n == 0) {
		n = 1;
	}
	if (n > SIZE_MAX - align - sizeof(void*)) {
		return NULL;
	}
	void* raw = malloc(n + align - 1 + sizeof(void*));
	if (raw == NULL) {
		return NULL;
	}
	uintptr_t p = ((uintptr_t)raw + sizeof(void*) + align - 1) & ~(uintptr_t)(align - 1);
	((void**)p)[-1] = raw;
	return (void*)p;
}

static void arena_free(void* p) {
	if (p != NULL) {
		free(((void**)p)[-1]);
	}
}
*/
import "C"

import "unsafe"

// CHeap allocates blocks with the C allocator, aligned to Alignment. Blocks
// are C memory: C
// callers may keep them after the call that produced them returns, and they
// are invisible to the Go garbage collector.
type CHeap struct {
	ledger *ledger
}

var _ Allocator = (*CHeap)(nil)

// NewCHeap returns a malloc-backed allocator.
func NewCHeap(opts ...Option) *CHeap {
	return &CHeap{ledger: newLedger(applyOptions(opts))}
}

// Allocate implements Allocator.
func (c *CHeap) Allocate(size int) (unsafe.Pointer, error) {
	if err := c.ledger.reserve(size); err != nil {
		return nil, err
	}

	ptr := C.arena_malloc(C.size_t(size), Alignment)
	if ptr == nil {
		c.ledger.unreserve(size)
		return nil, ErrOutOfMemory
	}

	c.ledger.commit(ptr, size)
	return ptr, nil
}

// Release implements Allocator.
func (c *CHeap) Release(ptr unsafe.Pointer) error {
	if ptr == nil {
		return nil
	}
	if _, err := c.ledger.remove(ptr); err != nil {
		return err
	}
	C.arena_free(ptr)
	return nil
}

// Stats implements Allocator.
func (c *CHeap) Stats() Stats {
	return c.ledger.snapshot()
}
