// Package testutil holds assertion and input helpers shared by tests.
package testutil

import (
	"math"
	"testing"
)

// Float is the set of element types the kernels operate on.
type Float interface {
	~float32 | ~float64
}

// RequireExact fails t unless got and want have the same length and every
// element pair has the same bit pattern. NaNs compare equal to NaNs.
func RequireExact[T Float](t *testing.T, got, want []T) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		g, w := float64(got[i]), float64(want[i])
		if math.IsNaN(g) && math.IsNaN(w) {
			continue
		}
		if g != w || math.Signbit(g) != math.Signbit(w) {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
