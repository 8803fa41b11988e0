//go:build arm64 && !purego

package neon

import (
	"github.com/cwbudde/algo-bridge/internal/cpu"
	"github.com/cwbudde/algo-bridge/kernel/internal/arch/registry"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "neon",
		SIMDLevel:    cpu.SIMDNEON,
		Priority:     15,
		GroupF32:     groupF32,
		GroupF64:     groupF64,
		TransformF32: TransformF32,
		TransformF64: TransformF64,
	})
}
