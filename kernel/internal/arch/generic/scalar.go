// Package generic provides the scalar transform used as the fallback path and
// as the remainder path of every batch kernel.
package generic

import "github.com/cwbudde/algo-bridge/kernel/internal/arch/registry"

type float interface {
	~float32 | ~float64
}

// TransformF32 writes dst[i] = src[i] * Factor one element at a time.
// Panics if dst is shorter than src.
func TransformF32(dst, src []float32) {
	transform(dst, src)
}

// TransformF64 writes dst[i] = src[i] * Factor one element at a time.
// Panics if dst is shorter than src.
func TransformF64(dst, src []float64) {
	transform(dst, src)
}

func transform[T float](dst, src []T) {
	dst = dst[:len(src)]
	for i, x := range src {
		dst[i] = x * registry.Factor
	}
}
