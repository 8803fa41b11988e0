//go:build arm64 && !purego

// Package neon provides the 128-bit batch path: 4 float32 or 2 float64
// elements per group, with the scalar path for the tail.
package neon

import (
	"github.com/cwbudde/algo-bridge/kernel/internal/arch/generic"
	"github.com/cwbudde/algo-bridge/kernel/internal/arch/registry"
)

const (
	groupF32 = 128 / 32
	groupF64 = 128 / 64
)

// TransformF32 processes 4-lane groups, then the scalar remainder.
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
		}
	}

	generic.TransformF32(dst[i:], src[i:])
}

// TransformF64 processes 2-lane groups, then the scalar remainder.
func TransformF64(dst, src []float64) {
	n := len(src)
	dst = dst[:n]

	i := 0
	for ; i+groupF64 <= n; i += groupF64 {
		s := (*[groupF64]float64)(src[i:])
		d := (*[groupF64]float64)(dst[i:])
		*d = [groupF64]float64{s[0] * registry.Factor, s[1] * registry.Factor}
	}

	generic.TransformF64(dst[i:], src[i:])
}
