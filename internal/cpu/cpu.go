// Package cpu provides CPU feature detection for kernel selection.
//
// Detection runs lazily on the first call to DetectFeatures and is cached.
// Tests and the configuration layer may override the detected features with
// SetForcedFeatures, for example to pin the scalar fallback path.
package cpu

import (
	"strings"
	"sync"
)

// SIMDLevel identifies a SIMD instruction set a kernel requires.
// Levels are not ordered across architectures (AVX2 vs NEON).
type SIMDLevel int

const (
	// SIMDNone requires nothing beyond scalar Go.
	SIMDNone SIMDLevel = iota

	// SIMDSSE2 is the x86-64 baseline (128-bit registers).
	SIMDSSE2

	// SIMDAVX2 is x86-64 AVX2 (256-bit registers).
	SIMDAVX2

	// SIMDAVX512 is x86-64 AVX-512F (512-bit registers).
	SIMDAVX512

	// SIMDNEON is ARM Advanced SIMD (128-bit registers).
	SIMDNEON
)

// String returns a human-readable name for the SIMD level.
func (s SIMDLevel) String() string {
	switch s {
	case SIMDNone:
		return "None"
	case SIMDSSE2:
		return "SSE2"
	case SIMDAVX2:
		return "AVX2"
	case SIMDAVX512:
		return "AVX-512"
	case SIMDNEON:
		return "NEON"
	default:
		return "Unknown"
	}
}

// RegisterBits returns the vector register width in bits for the level,
// or 0 for SIMDNone.
func (s SIMDLevel) RegisterBits() int {
	switch s {
	case SIMDSSE2, SIMDNEON:
		return 128
	case SIMDAVX2:
		return 256
	case SIMDAVX512:
		return 512
	default:
		return 0
	}
}

// Features describes CPU capabilities relevant to kernel selection.
type Features struct {
	HasSSE2   bool
	HasAVX2   bool
	HasAVX512 bool
	HasNEON   bool

	// ForceGeneric disables every SIMD level.
	ForceGeneric bool

	// Architecture is runtime.GOARCH.
	Architecture string
}

// String lists the available levels, e.g. "amd64: SSE2 AVX2".
func (f Features) String() string {
	var b strings.Builder
	b.WriteString(f.Architecture)
	b.WriteString(":")
	if f.ForceGeneric {
		b.WriteString(" generic (forced)")
		return b.String()
	}
	n := 0
	for _, lvl := range []SIMDLevel{SIMDSSE2, SIMDAVX2, SIMDAVX512, SIMDNEON} {
		if Supports(f, lvl) {
			b.WriteString(" ")
			b.WriteString(lvl.String())
			n++
		}
	}
	if n == 0 {
		b.WriteString(" none")
	}
	return b.String()
}

var (
	detectedFeatures Features
	detectOnce       sync.Once
	detectMutex      sync.Mutex

	forcedFeatures *Features
	forcedMutex    sync.RWMutex
)

// DetectFeatures returns the CPU features of the current system, or the
// forced features if SetForcedFeatures is in effect. Safe for concurrent use.
func DetectFeatures() Features {
	forcedMutex.RLock()
	forced := forcedFeatures
	forcedMutex.RUnlock()

	if forced != nil {
		return *forced
	}

	detectMutex.Lock()
	detectOnce.Do(func() {
		detectedFeatures = detectFeaturesImpl()
	})
	features := detectedFeatures
	detectMutex.Unlock()

	return features
}

// SetForcedFeatures overrides detection until ResetDetection is called.
func SetForcedFeatures(f Features) {
	forcedMutex.Lock()
	defer forcedMutex.Unlock()
	forced := f
	forcedFeatures = &forced
}

// ForceGeneric keeps the detected architecture but disables all SIMD levels.
func ForceGeneric() {
	f := DetectFeatures()
	f.ForceGeneric = true
	SetForcedFeatures(f)
}

// ResetDetection clears forced features and the detection cache.
func ResetDetection() {
	forcedMutex.Lock()
	forcedFeatures = nil
	forcedMutex.Unlock()

	detectMutex.Lock()
	detectOnce = sync.Once{}
	detectedFeatures = Features{}
	detectMutex.Unlock()
}

// Supports reports whether features allow a kernel requiring level to run.
func Supports(features Features, level SIMDLevel) bool {
	if features.ForceGeneric {
		return level == SIMDNone
	}

	switch level {
	case SIMDNone:
		return true
	case SIMDSSE2:
		return features.HasSSE2
	case SIMDAVX2:
		return features.HasAVX2
	case SIMDAVX512:
		return features.HasAVX512
	case SIMDNEON:
		return features.HasNEON
	default:
		return false
	}
}
