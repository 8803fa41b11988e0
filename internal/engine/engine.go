// Package engine holds the request processors that live behind bridge
// handles.
package engine

import "errors"

// Prefix is prepended to every input by the default Engine.
const Prefix = "Processed: "

// ErrNilProcessor is returned by a Factory that produced no processor.
var ErrNilProcessor = errors.New("engine: factory returned nil processor")

// Processor turns one request into one response. Implementations must be
// deterministic in their input and must not retain input after returning.
type Processor interface {
	Process(input []byte) ([]byte, error)
}

// Factory builds a fresh Processor for a new handle.
type Factory func() (Processor, error)

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc func(input []byte) ([]byte, error)

// Process calls f(input).
func (f ProcessorFunc) Process(input []byte) ([]byte, error) {
	return f(input)
}

// Engine is the default processor. It holds no state, so one Engine may
// serve concurrent requests.
type Engine struct {
	prefix string
}

var _ Processor = (*Engine)(nil)

// New returns the default engine.
func New() (*Engine, error) {
	return &Engine{prefix: Prefix}, nil
}

// DefaultFactory builds default engines.
func DefaultFactory() (Processor, error) {
	return New()
}

// Process returns Prefix followed by input.
func (e *Engine) Process(input []byte) ([]byte, error) {
	out := make([]byte, 0, len(e.prefix)+len(input))
	out = append(out, e.prefix...)
	out = append(out, input...)
	return out, nil
}

// Build calls f and rejects a nil processor.
func (f Factory) Build() (Processor, error) {
	p, err := f()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNilProcessor
	}
	return p, nil
}
