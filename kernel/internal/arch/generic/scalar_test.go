package generic

import (
	"fmt"
	"math"
	"testing"
)

func TestTransformF32_Generic(t *testing.T) {
	sizes := []int{0, 1, 4, 8, 15, 16, 17, 32, 100}

	for _, n := range sizes {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			src := make([]float32, n)
			dst := make([]float32, n)
			for i := range src {
				src[i] = float32(i) - 3.25
			}

			TransformF32(dst, src)

			for i := range dst {
				if want := src[i] * 2; dst[i] != want {
					t.Errorf("TransformF32[%d] = %v, want %v", i, dst[i], want)
				}
			}
		})
	}
}

func TestTransformF64_Generic(t *testing.T) {
	sizes := []int{0, 1, 3, 4, 5, 8, 9, 64}

	for _, n := range sizes {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			src := make([]float64, n)
			dst := make([]float64, n)
			for i := range src {
				src[i] = float64(i)*0.1 - 1
			}

			TransformF64(dst, src)

			for i := range dst {
				if want := src[i] * 2; dst[i] != want {
					t.Errorf("TransformF64[%d] = %v, want %v", i, dst[i], want)
				}
			}
		})
	}
}

func TestTransform_SpecialValues(t *testing.T) {
	src := []float64{math.Inf(1), math.Inf(-1), math.Copysign(0, -1), math.MaxFloat64, math.SmallestNonzeroFloat64}
	dst := make([]float64, len(src))

	TransformF64(dst, src)

	if !math.IsInf(dst[0], 1) || !math.IsInf(dst[1], -1) {
		t.Errorf("infinities not preserved: %v", dst[:2])
	}
	if dst[2] != 0 || !math.Signbit(dst[2]) {
		t.Errorf("-0 * 2 = %v, want -0", dst[2])
	}
	if !math.IsInf(dst[3], 1) {
		t.Errorf("MaxFloat64 * 2 = %v, want +Inf", dst[3])
	}
	if dst[4] != 2*math.SmallestNonzeroFloat64 {
		t.Errorf("denormal * 2 = %v", dst[4])
	}

	nan := []float32{float32(math.NaN())}
	out := []float32{0}
	TransformF32(out, nan)
	if !math.IsNaN(float64(out[0])) {
		t.Errorf("NaN * 2 = %v, want NaN", out[0])
	}
}

func TestTransform_InPlace(t *testing.T) {
	buf := []float32{1, -2, 3.5}
	TransformF32(buf, buf)

	want := []float32{2, -4, 7}
	for i := range buf {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestTransform_ShortDstPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("TransformF64 should panic when dst is shorter than src")
		}
	}()
	TransformF64(make([]float64, 2), make([]float64, 3))
}

func BenchmarkTransformF32_Generic(b *testing.B) {
	for _, n := range []int{64, 256, 1024, 4096} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			src := make([]float32, n)
			dst := make([]float32, n)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				TransformF32(dst, src)
			}

			b.SetBytes(int64(n) * 4 * 2)
		})
	}
}
