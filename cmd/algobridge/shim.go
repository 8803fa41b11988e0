package main

import (
	"fmt"
	"math"
	"os"
	"sync"
	"unsafe"

	"github.com/cwbudde/algo-bridge/bridge"
	"github.com/cwbudde/algo-bridge/internal/arena"
	"github.com/cwbudde/algo-bridge/internal/config"
	"github.com/cwbudde/algo-bridge/internal/handle"
	"github.com/cwbudde/algo-bridge/kernel"
	"go.uber.org/zap"
)

var (
	global     *bridge.Bridge
	globalOnce sync.Once
)

// instance returns the process-wide bridge, configuring it on first use.
func instance() *bridge.Bridge {
	globalOnce.Do(func() {
		global = setup(os.Getenv(config.EnvPath))
	})
	return global
}

func setup(path string) *bridge.Bridge {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "algobridge: %v; using defaults\n", err)
		cfg = config.Default()
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		logger = zap.NewNop()
	}
	bridge.SetLogger(logger.Named("algobridge"))
	cfg.Apply()

	bridge.Logger().Info("initialized",
		zap.String("config", path),
		zap.String("kernel", kernel.Selected().Name),
		zap.Int("max_live_bytes", cfg.Arena.MaxLiveBytes),
	)

	return bridge.New(bridge.WithAllocator(arena.NewCHeap(cfg.ArenaOptions()...)))
}

func create() uintptr {
	return uintptr(instance().Create())
}

func destroy(h uintptr) {
	instance().Destroy(handle.Handle(h))
}

func process(h uintptr, input unsafe.Pointer, inputLen uint64, output *unsafe.Pointer, outputLen *uint64) int {
	if inputLen > math.MaxInt {
		return int(bridge.StatusInvalidArgument)
	}

	var n int
	var nP *int
	if outputLen != nil {
		nP = &n
	}

	status := instance().Request(handle.Handle(h), input, int(inputLen), output, nP)
	if status == bridge.StatusOK {
		*outputLen = uint64(n)
	}
	return int(status)
}

func allocate(size uint64) unsafe.Pointer {
	if size > math.MaxInt {
		return nil
	}
	return instance().Allocate(int(size))
}

func release(ptr unsafe.Pointer) {
	instance().Release(ptr)
}

// transformF32 runs the float32 kernel over count elements. A zero count
// touches nothing; nil buffers with a non-zero count are rejected. The
// config is loaded first so kernel forcing applies to kernel-only callers.
func transformF32(input, output unsafe.Pointer, count uint64) {
	instance()
	defer recoverKernel("simd_process_f32")
	if !kernelArgsOK("simd_process_f32", input, output, count, 4) {
		return
	}
	n := int(count)
	kernel.TransformF32(unsafe.Slice((*float32)(output), n), unsafe.Slice((*float32)(input), n))
}

func transformF64(input, output unsafe.Pointer, count uint64) {
	instance()
	defer recoverKernel("simd_process_f64")
	if !kernelArgsOK("simd_process_f64", input, output, count, 8) {
		return
	}
	n := int(count)
	kernel.TransformF64(unsafe.Slice((*float64)(output), n), unsafe.Slice((*float64)(input), n))
}

func kernelArgsOK(op string, input, output unsafe.Pointer, count, elemSize uint64) bool {
	if count == 0 {
		return false
	}
	if input == nil || output == nil || count > math.MaxInt/elemSize {
		bridge.Logger().Warn("kernel call rejected",
			zap.String("op", op),
			zap.Uint64("count", count),
			zap.Bool("input_nil", input == nil),
			zap.Bool("output_nil", output == nil),
		)
		return false
	}
	return true
}

func recoverKernel(op string) {
	if r := recover(); r != nil {
		bridge.Logger().Error("kernel call panicked", zap.String("op", op), zap.Any("panic", r))
	}
}
