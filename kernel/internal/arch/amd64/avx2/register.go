//go:build amd64 && !purego

package avx2

import (
	"github.com/cwbudde/algo-bridge/internal/cpu"
	"github.com/cwbudde/algo-bridge/kernel/internal/arch/registry"
)

// init registers the AVX2 path (Haswell / Excavator and later).
// Priority 20: preferred over generic whenever AVX2 is present.
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "avx2",
		SIMDLevel:    cpu.SIMDAVX2,
		Priority:     20,
		GroupF32:     groupF32,
		GroupF64:     groupF64,
		TransformF32: TransformF32,
		TransformF64: TransformF64,
	})
}
