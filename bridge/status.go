package bridge

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-bridge/internal/arena"
	"github.com/cwbudde/algo-bridge/internal/handle"
	"github.com/cwbudde/algo-bridge/internal/metrics"
)

// Status is the integer result code returned across the boundary.
type Status int

const (
	StatusOK              Status = 0
	StatusInvalidArgument Status = -1
	StatusAllocFailed     Status = -2
	StatusInternal        Status = -3
)

var (
	ErrInvalidArgument = errors.New("bridge: invalid argument")
	ErrInternal        = errors.New("bridge: internal fault")
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidArgument:
		return "invalid argument"
	case StatusAllocFailed:
		return "allocation failed"
	case StatusInternal:
		return "internal fault"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Err returns the sentinel error for s, or nil for StatusOK.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusInvalidArgument:
		return ErrInvalidArgument
	case StatusAllocFailed:
		return arena.ErrOutOfMemory
	default:
		return ErrInternal
	}
}

// StatusOf classifies err.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, handle.ErrStale):
		return StatusInvalidArgument
	case errors.Is(err, arena.ErrOutOfMemory), errors.Is(err, arena.ErrInvalidSize):
		return StatusAllocFailed
	default:
		return StatusInternal
	}
}

func (s Status) outcome() metrics.Outcome {
	switch s {
	case StatusOK:
		return metrics.OutcomeOK
	case StatusInvalidArgument:
		return metrics.OutcomeInvalidArgument
	case StatusAllocFailed:
		return metrics.OutcomeAllocFailed
	default:
		return metrics.OutcomeInternal
	}
}
