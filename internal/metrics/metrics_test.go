package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRecorderObserve(t *testing.T) {
	r := New()
	r.Observe(OutcomeOK, 2, 14, 10*time.Microsecond)
	r.Observe(OutcomeOK, 3, 15, 30*time.Microsecond)
	r.Observe(OutcomeInvalidArgument, 0, 0, 2*time.Microsecond)
	r.Observe(OutcomeAllocFailed, 5, 0, 4*time.Microsecond)

	s := r.Snapshot()

	tests := []struct {
		name string
		got  uint64
		want uint64
	}{
		{"ok", s.Count(OutcomeOK), 2},
		{"invalid", s.Count(OutcomeInvalidArgument), 1},
		{"alloc", s.Count(OutcomeAllocFailed), 1},
		{"internal", s.Count(OutcomeInternal), 0},
		{"requests", s.Requests(), 4},
		{"bytes in", s.BytesIn, 10},
		{"bytes out", s.BytesOut, 29},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}

	if s.MaxLatency != 30*time.Microsecond {
		t.Errorf("MaxLatency = %v, want 30µs", s.MaxLatency)
	}
	if s.TotalLatency != 46*time.Microsecond {
		t.Errorf("TotalLatency = %v, want 46µs", s.TotalLatency)
	}
	if got, want := s.AverageLatency(), 46*time.Microsecond/4; got != want {
		t.Errorf("AverageLatency = %v, want %v", got, want)
	}
}

func TestRecorderOutOfRangeOutcome(t *testing.T) {
	r := New()
	r.Observe(Outcome(42), 0, 0, 0)
	r.Observe(Outcome(-1), 0, 0, 0)
	if got := r.Snapshot().Count(OutcomeInternal); got != 2 {
		t.Fatalf("internal = %d, want 2", got)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	var r Recorder
	s := r.Snapshot()
	if s.Requests() != 0 || s.AverageLatency() != 0 {
		t.Fatalf("empty snapshot = %+v", s)
	}
	if s.Count(Outcome(99)) != 0 {
		t.Fatal("Count(out of range) != 0")
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.Observe(OutcomeOK, 1, 1, time.Second)
	if s := r.Snapshot(); s.Requests() != 0 {
		t.Fatalf("nil recorder snapshot = %+v", s)
	}
}

func TestRecorderReset(t *testing.T) {
	r := New()
	r.Observe(OutcomeInternal, 1, 1, time.Millisecond)
	r.Reset()
	if s := r.Snapshot(); s != (Snapshot{}) {
		t.Fatalf("after Reset: %+v", s)
	}
}

func TestRecorderConcurrent(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for g := 1; g <= 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				r.Observe(OutcomeOK, 1, 2, time.Duration(g)*time.Microsecond)
			}
		}(g)
	}
	wg.Wait()

	s := r.Snapshot()
	if s.Count(OutcomeOK) != 8000 || s.BytesIn != 8000 || s.BytesOut != 16000 {
		t.Fatalf("counters = %+v", s)
	}
	if s.MaxLatency != 8*time.Microsecond {
		t.Fatalf("MaxLatency = %v, want 8µs", s.MaxLatency)
	}
}

func TestSnapshotString(t *testing.T) {
	r := New()
	r.Observe(OutcomeOK, 2, 14, time.Microsecond)
	s := r.Snapshot().String()
	for _, want := range []string{"requests=1", "ok=1", "in=2B", "out=14B"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	if OutcomeAllocFailed.String() != "alloc_failed" {
		t.Fatal(OutcomeAllocFailed.String())
	}
	if Outcome(9).String() != "Outcome(9)" {
		t.Fatal(Outcome(9).String())
	}
}
