package kernel

import (
	"sync/atomic"

	"github.com/cwbudde/algo-bridge/internal/cpu"
	"github.com/cwbudde/algo-bridge/kernel/internal/arch/registry"
)

// Factor is the constant both transforms multiply by.
const Factor = registry.Factor

// Info describes one registered implementation.
type Info struct {
	Name      string
	Level     cpu.SIMDLevel
	Priority  int
	GroupF32  int
	GroupF64  int
	Supported bool // runnable with the current (possibly forced) features
}

var active atomic.Pointer[registry.OpEntry]

func selected() *registry.OpEntry {
	if e := active.Load(); e != nil {
		return e
	}

	entry, ok := registry.Global.Lookup(cpu.DetectFeatures())
	if !ok {
		panic("kernel: no implementation registered (missing generic fallback?)")
	}
	if entry.TransformF32 == nil || entry.TransformF64 == nil {
		panic("kernel: selected implementation " + entry.Name + " is incomplete")
	}

	active.CompareAndSwap(nil, &entry)
	return active.Load()
}

// TransformF32 writes dst[i] = src[i] * Factor for every i < len(src).
// Elements of dst past len(src) are left untouched. Panics if dst is
// shorter than src.
func TransformF32(dst, src []float32) {
	selected().TransformF32(dst, src)
}

// TransformF64 writes dst[i] = src[i] * Factor for every i < len(src).
// Elements of dst past len(src) are left untouched. Panics if dst is
// shorter than src.
func TransformF64(dst, src []float64) {
	selected().TransformF64(dst, src)
}

// ApplyF32 returns a new slice holding the transform of src.
func ApplyF32(src []float32) []float32 {
	out := make([]float32, len(src))
	TransformF32(out, src)
	return out
}

// ApplyF64 returns a new slice holding the transform of src.
func ApplyF64(src []float64) []float64 {
	out := make([]float64, len(src))
	TransformF64(out, src)
	return out
}

// Selected returns the implementation the transforms dispatch to.
func Selected() Info {
	e := selected()
	return infoOf(*e, true)
}

// Reselect drops the cached choice so the next call consults the CPU
// features again. Call it after cpu.SetForcedFeatures or cpu.ForceGeneric.
func Reselect() {
	active.Store(nil)
}

// Entries lists every registered implementation by descending priority.
func Entries() []Info {
	features := cpu.DetectFeatures()
	entries := registry.Global.ListEntries()

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		out = append(out, infoOf(e, cpu.Supports(features, e.SIMDLevel)))
	}
	return out
}

func infoOf(e registry.OpEntry, supported bool) Info {
	return Info{
		Name:      e.Name,
		Level:     e.SIMDLevel,
		Priority:  e.Priority,
		GroupF32:  e.GroupF32,
		GroupF64:  e.GroupF64,
		Supported: supported,
	}
}
