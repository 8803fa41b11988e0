package generic

import (
	"github.com/cwbudde/algo-bridge/internal/cpu"
	"github.com/cwbudde/algo-bridge/kernel/internal/arch/registry"
)

// init registers the scalar path. Priority 0: used only when nothing wider
// is supported, or when features are forced generic.
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "generic",
		SIMDLevel:    cpu.SIMDNone,
		Priority:     0,
		GroupF32:     1,
		GroupF64:     1,
		TransformF32: TransformF32,
		TransformF64: TransformF64,
	})
}
