//go:build amd64 && !purego

// Package avx2 provides the 256-bit batch path: 8 float32 or 4 float64
// elements per group, unaligned, with the scalar path for the tail.
package avx2

import (
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-bridge/kernel/internal/arch/generic"
	"github.com/cwbudde/algo-bridge/kernel/internal/arch/registry"
)

const (
	groupF32 = 256 / 32
	groupF64 = 256 / 64
)

// TransformF32 processes full 8-lane groups as one array assignment so the
// compiler keeps the group in registers, then finishes the remainder with
// the scalar path.
func TransformF32(dst, src []float32) {
	n := len(src)
	dst = dst[:n]

	i := 0
	for ; i+groupF32 <= n; i += groupF32 {
		s := (*[groupF32]float32)(src[i:])
		d := (*[groupF32]float32)(dst[i:])
		*d = [groupF32]float32{
			s[0] * registry.Factor, s[1] * registry.Factor,
			s[2] * registry.Factor, s[3] * registry.Factor,
			s[4] * registry.Factor, s[5] * registry.Factor,
			s[6] * registry.Factor, s[7] * registry.Factor,
		}
	}

	generic.TransformF32(dst[i:], src[i:])
}

// TransformF64 hands the full 4-lane groups to vecmath.ScaleBlock and
// finishes the remainder with the scalar path.
func TransformF64(dst, src []float64) {
	n := len(src)
	dst = dst[:n]

	m := n - n%groupF64
	if m > 0 {
		vecmath.ScaleBlock(dst[:m], src[:m], registry.Factor)
	}

	generic.TransformF64(dst[m:], src[m:])
}
