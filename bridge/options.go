package bridge

import (
	"github.com/cwbudde/algo-bridge/internal/arena"
	"github.com/cwbudde/algo-bridge/internal/engine"
	"github.com/cwbudde/algo-bridge/internal/metrics"
	"go.uber.org/zap"
)

// Option configures a Bridge.
type Option func(*Bridge)

// WithAllocator sets the arena response blocks come from. The default is a
// Go-heap arena.
func WithAllocator(a arena.Allocator) Option {
	return func(b *Bridge) {
		if a != nil {
			b.alloc = a
		}
	}
}

// WithLogger sets the bridge logger. Without it the bridge logs through the
// package Logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) {
		b.log = l
	}
}

// WithProcessorFactory sets how Create builds the processor behind a new
// handle. The default builds engine.Engine.
func WithProcessorFactory(f engine.Factory) Option {
	return func(b *Bridge) {
		if f != nil {
			b.factory = f
		}
	}
}

// WithMetrics records every Request into r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(b *Bridge) {
		b.metrics = r
	}
}
