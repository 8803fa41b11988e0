package testutil

import (
	"bytes"
	"testing"
)

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise[float64](42, 1.0, 100)
	b := DeterministicNoise[float64](42, 1.0, 100)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: %v != %v (same seed)", i, a[i], b[i])
		}
		if a[i] < -1 || a[i] >= 1 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}

	c := DeterministicNoise[float64](43, 1.0, 100)
	if a[0] == c[0] && a[1] == c[1] {
		t.Fatal("different seeds produced identical output")
	}
}

func TestRamp(t *testing.T) {
	got := Ramp[float32](1, 0.5, 4)
	RequireExact(t, got, []float32{1, 1.5, 2, 2.5})
}

func TestDeterministicBytes(t *testing.T) {
	a := DeterministicBytes(7, 64)
	b := DeterministicBytes(7, 64)
	if !bytes.Equal(a, b) {
		t.Fatal("same seed produced different bytes")
	}
	if len(DeterministicBytes(7, 0)) != 0 {
		t.Fatal("length 0 returned bytes")
	}
}
