// Package kernel provides the elementwise float transforms exported across
// the native boundary: dst[i] = src[i] * Factor, for float32 and float64.
//
// Each transform has a batch path that processes fixed-size groups matching
// the vector register width (8×float32 / 4×float64 on AVX2, 4×float32 /
// 2×float64 on NEON) and a scalar path for the remainder and for CPUs without
// a supported instruction set. The implementation is chosen once from the
// detected CPU features; every implementation produces bit-identical output.
//
// The transforms never allocate and have no error channel. dst must hold at
// least len(src) elements; dst may be src itself.
package kernel
