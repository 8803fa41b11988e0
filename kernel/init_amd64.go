//go:build amd64 && !purego

package kernel

import (
	_ "github.com/cwbudde/algo-bridge/kernel/internal/arch/amd64/avx2" // register AVX2 backend
	_ "github.com/cwbudde/algo-bridge/kernel/internal/arch/generic"    // register generic backend
)
