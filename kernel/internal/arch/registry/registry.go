// Package registry holds the elementwise transform implementations available
// to the kernel package.
//
// Architecture packages register an OpEntry from init(). The kernel package
// asks for the highest-priority entry the current CPU supports.
package registry

import (
	"slices"
	"sync"

	"github.com/cwbudde/algo-bridge/internal/cpu"
)

// Factor is the constant every transform multiplies by.
const Factor = 2

// TransformF32Fn writes dst[i] = src[i] * Factor for i < len(src).
type TransformF32Fn func(dst, src []float32)

// TransformF64Fn writes dst[i] = src[i] * Factor for i < len(src).
type TransformF64Fn func(dst, src []float64)

// OpEntry is one registered implementation.
type OpEntry struct {
	// Name identifies the implementation ("generic", "avx2", "neon").
	Name string

	// SIMDLevel is the instruction set the batch path requires.
	SIMDLevel cpu.SIMDLevel

	// Priority orders compatible entries; higher wins.
	//   generic 0, NEON 15, AVX2 20
	Priority int

	// GroupF32 and GroupF64 are the batch sizes: register width divided by
	// element width. 1 means every element takes the scalar path.
	GroupF32 int
	GroupF64 int

	TransformF32 TransformF32Fn
	TransformF64 TransformF64Fn
}

// OpRegistry stores the registered entries.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
	sorted  bool
}

// Global is the registry the arch packages register into.
var Global = &OpRegistry{}

// Register adds an entry. Registrations should complete before the first
// Lookup, which in practice means from init().
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority entry supported by features.
// ok is false only when nothing compatible is registered.
func (r *OpRegistry) Lookup(features cpu.Features) (entry OpEntry, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sortLocked()
	for _, e := range r.entries {
		if cpu.Supports(features, e.SIMDLevel) {
			return e, true
		}
	}

	return OpEntry{}, false
}

// Find returns the entry registered under name.
func (r *OpRegistry) Find(name string) (OpEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.Name == name {
			return e, true
		}
	}
	return OpEntry{}, false
}

// ListEntries returns a copy of all entries ordered by descending priority.
func (r *OpRegistry) ListEntries() []OpEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sortLocked()
	return slices.Clone(r.entries)
}

// Reset clears all entries. Tests only.
func (r *OpRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.sorted = false
}

// sortLocked orders entries by descending priority, keeping registration
// order among equals. Caller holds r.mu for writing.
func (r *OpRegistry) sortLocked() {
	if r.sorted {
		return
	}
	slices.SortStableFunc(r.entries, func(a, b OpEntry) int {
		return b.Priority - a.Priority
	})
	r.sorted = true
}
