package bridge

import (
	"errors"
	"fmt"
	"io"
	"time"
	"unsafe"

	"github.com/cwbudde/algo-bridge/internal/arena"
	"github.com/cwbudde/algo-bridge/internal/engine"
	"github.com/cwbudde/algo-bridge/internal/handle"
	"github.com/cwbudde/algo-bridge/internal/metrics"
	"go.uber.org/zap"
)

// Bridge owns a handle table and the arena that response blocks are
// allocated from. It is safe for concurrent use.
type Bridge struct {
	alloc   arena.Allocator
	log     *zap.Logger
	factory engine.Factory
	metrics *metrics.Recorder
	handles *handle.Table[engine.Processor]
}

// New returns a Bridge configured by opts.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		alloc:   arena.NewHeap(),
		factory: engine.DefaultFactory,
		handles: handle.NewTable[engine.Processor](),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bridge) logger() *zap.Logger {
	if b.log != nil {
		return b.log
	}
	return Logger()
}

// Allocator returns the arena response blocks come from.
func (b *Bridge) Allocator() arena.Allocator {
	return b.alloc
}

// Create builds a processor and returns a live handle to it, or handle.Nil
// if the processor could not be built.
func (b *Bridge) Create() (h handle.Handle) {
	defer func() {
		if r := recover(); r != nil {
			b.logger().Error("create panicked", zap.Any("panic", r), zap.Stack("stack"))
			h = handle.Nil
		}
	}()

	p, err := b.factory.Build()
	if err != nil {
		b.logger().Warn("create failed", zap.Error(err))
		return handle.Nil
	}

	h, err = b.handles.Insert(p)
	if err != nil {
		closeProcessor(p)
		b.logger().Warn("create failed", zap.Error(err))
		return handle.Nil
	}

	b.logger().Debug("handle created", zap.Uint64("handle", uint64(h)))
	return h
}

// Destroy ends the lifetime of h. Nil and already destroyed handles are
// ignored.
func (b *Bridge) Destroy(h handle.Handle) {
	defer func() {
		if r := recover(); r != nil {
			b.logger().Error("destroy panicked", zap.Uint64("handle", uint64(h)), zap.Any("panic", r))
		}
	}()

	if h == handle.Nil {
		return
	}
	p, err := b.handles.Remove(h)
	if err != nil {
		b.logger().Warn("destroy of stale handle", zap.Uint64("handle", uint64(h)))
		return
	}
	closeProcessor(p)
	b.logger().Debug("handle destroyed", zap.Uint64("handle", uint64(h)))
}

// Request runs the processor behind h on input[:inputLen].
//
// On StatusOK the response is stored in a new arena block of outputLen+1
// bytes whose last byte is 0, and *output and *outputLen are set. The caller
// owns the block and must hand it back with Release exactly once. On any
// other status *output and *outputLen are left untouched.
func (b *Bridge) Request(h handle.Handle, input unsafe.Pointer, inputLen int, output *unsafe.Pointer, outputLen *int) (status Status) {
	start := time.Now()
	respLen := 0
	defer func() {
		b.metrics.Observe(status.outcome(), max(inputLen, 0), respLen, time.Since(start))
	}()

	if h == handle.Nil || input == nil || output == nil || outputLen == nil || inputLen < 0 {
		b.logger().Warn("request rejected",
			zap.Uint64("handle", uint64(h)),
			zap.Int("input_len", inputLen),
			zap.Bool("input_nil", input == nil),
			zap.Bool("output_nil", output == nil || outputLen == nil),
		)
		return StatusInvalidArgument
	}

	ptr, n, err := b.process(h, unsafe.Slice((*byte)(input), inputLen))
	status = StatusOf(err)
	if err != nil {
		b.logRequestError(h, inputLen, status, err)
		return status
	}

	*output = ptr
	*outputLen = n
	respLen = n

	b.logger().Debug("request",
		zap.Uint64("handle", uint64(h)),
		zap.Int("input_len", inputLen),
		zap.Int("output_len", n),
	)
	return StatusOK
}

// Call is Request for Go callers: the response is copied into Go memory and
// its arena block released before returning.
func (b *Bridge) Call(h handle.Handle, input []byte) (resp []byte, err error) {
	start := time.Now()
	defer func() {
		b.metrics.Observe(StatusOf(err).outcome(), len(input), len(resp), time.Since(start))
	}()

	if h == handle.Nil {
		return nil, fmt.Errorf("%w: nil handle", ErrInvalidArgument)
	}

	ptr, n, err := b.process(h, input)
	if err != nil {
		b.logRequestError(h, len(input), StatusOf(err), err)
		return nil, err
	}

	resp = make([]byte, n)
	copy(resp, arena.Bytes(ptr, n))
	b.Release(ptr)
	return resp, nil
}

// process looks up h, runs its processor and copies the response into a
// terminated arena block. A panic anywhere releases the block, if one was
// allocated, and surfaces as ErrInternal.
func (b *Bridge) process(h handle.Handle, input []byte) (ptr unsafe.Pointer, n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ptr != nil {
				_ = b.alloc.Release(ptr)
			}
			b.logger().Error("request panicked",
				zap.Uint64("handle", uint64(h)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			ptr, n, err = nil, 0, fmt.Errorf("%w: panic: %v", ErrInternal, r)
		}
	}()

	p, err := b.handles.Get(h)
	if err != nil {
		return nil, 0, fmt.Errorf("handle %#x: %w", uint64(h), err)
	}

	resp, err := p.Process(input)
	if err != nil {
		return nil, 0, fmt.Errorf("process: %w", err)
	}

	ptr, err = b.alloc.Allocate(len(resp) + 1)
	if err != nil {
		return nil, 0, fmt.Errorf("allocate %d bytes: %w", len(resp)+1, err)
	}

	block := arena.Bytes(ptr, len(resp)+1)
	copy(block, resp)
	block[len(resp)] = 0

	return ptr, len(resp), nil
}

func (b *Bridge) logRequestError(h handle.Handle, inputLen int, status Status, err error) {
	fields := []zap.Field{
		zap.Uint64("handle", uint64(h)),
		zap.Int("input_len", inputLen),
		zap.Int("status", int(status)),
		zap.Error(err),
	}
	switch status {
	case StatusInvalidArgument:
		b.logger().Warn("request rejected", fields...)
	default:
		b.logger().Error("request failed", fields...)
	}
}

// Allocate returns a block of size bytes from the bridge arena, or nil.
func (b *Bridge) Allocate(size int) (ptr unsafe.Pointer) {
	defer func() {
		if r := recover(); r != nil {
			b.logger().Error("allocate panicked", zap.Int("size", size), zap.Any("panic", r))
			ptr = nil
		}
	}()

	ptr, err := b.alloc.Allocate(size)
	if err != nil {
		b.logger().Warn("allocate failed", zap.Int("size", size), zap.Error(err))
		return nil
	}
	return ptr
}

// Release returns a block to the bridge arena. nil is ignored; a pointer
// the arena does not own is logged and ignored.
func (b *Bridge) Release(ptr unsafe.Pointer) {
	defer func() {
		if r := recover(); r != nil {
			b.logger().Error("release panicked", zap.Any("panic", r))
		}
	}()

	if err := b.alloc.Release(ptr); err != nil {
		level := zap.WarnLevel
		if !errors.Is(err, arena.ErrUnknownBlock) {
			level = zap.ErrorLevel
		}
		b.logger().Check(level, "release failed").Write(
			zap.Uintptr("ptr", uintptr(ptr)),
			zap.Error(err),
		)
	}
}

// Len returns the number of live handles.
func (b *Bridge) Len() int {
	return b.handles.Len()
}

// Close destroys every live handle. Create fails afterwards.
func (b *Bridge) Close() {
	b.handles.Close(closeProcessor)
}

func closeProcessor(p engine.Processor) {
	if c, ok := p.(io.Closer); ok {
		_ = c.Close()
	}
}
