package testutil

import (
	"math/rand"
)

// DeterministicNoise returns length uniform values in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise[T Float](seed int64, amplitude float64, length int) []T {
	out := make([]T, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = T((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// Ramp returns start, start+step, ... of the given length.
func Ramp[T Float](start, step T, length int) []T {
	out := make([]T, length)
	for i := range out {
		out[i] = start + T(i)*step
	}
	return out
}

// DeterministicBytes returns length pseudo-random bytes from a fixed seed.
func DeterministicBytes(seed int64, length int) []byte {
	out := make([]byte, length)
	rng := rand.New(rand.NewSource(seed))
	_, _ = rng.Read(out)
	return out
}
