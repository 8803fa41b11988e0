package bridge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cwbudde/algo-bridge/internal/arena"
	"github.com/cwbudde/algo-bridge/internal/handle"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, StatusOK},
		{"invalid", ErrInvalidArgument, StatusInvalidArgument},
		{"stale wrapped", fmt.Errorf("handle 0x1: %w", handle.ErrStale), StatusInvalidArgument},
		{"oom", arena.ErrOutOfMemory, StatusAllocFailed},
		{"oom wrapped", fmt.Errorf("allocate 3 bytes: %w", arena.ErrOutOfMemory), StatusAllocFailed},
		{"invalid size", arena.ErrInvalidSize, StatusAllocFailed},
		{"internal", ErrInternal, StatusInternal},
		{"other", errors.New("other"), StatusInternal},
		{"unknown block", arena.ErrUnknownBlock, StatusInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Fatalf("StatusOf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range []Status{StatusOK, StatusInvalidArgument, StatusAllocFailed, StatusInternal} {
		if got := StatusOf(s.Err()); got != s {
			t.Errorf("StatusOf(%v.Err()) = %v", s, got)
		}
	}
	if Status(5).String() != "Status(5)" {
		t.Errorf("String = %q", Status(5).String())
	}
}
