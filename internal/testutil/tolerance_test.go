package testutil

import (
	"math"
	"testing"
)

func TestRequireExactNaN(t *testing.T) {
	nan := float32(math.NaN())
	RequireExact(t, []float32{nan, 1}, []float32{nan, 1})
}

func TestRequireExactSignedZero(t *testing.T) {
	RequireExact(t, []float64{math.Copysign(0, -1), 0}, []float64{math.Copysign(0, -1), 0})
}
