// Package metrics counts boundary requests.
//
// A Recorder is updated with atomics only, so it may sit on the request
// path of concurrent callers without a lock.
package metrics

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Outcome buckets a request by its status code.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeInvalidArgument
	OutcomeAllocFailed
	OutcomeInternal
	numOutcomes
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalidArgument:
		return "invalid_argument"
	case OutcomeAllocFailed:
		return "alloc_failed"
	case OutcomeInternal:
		return "internal"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Recorder accumulates request counters. The zero value is ready to use.
type Recorder struct {
	counts   [numOutcomes]atomic.Uint64
	bytesIn  atomic.Uint64
	bytesOut atomic.Uint64
	total    atomic.Int64
	max      atomic.Int64
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

// Observe records one finished request. Out-of-range outcomes count as
// internal. A nil Recorder ignores the call.
func (r *Recorder) Observe(o Outcome, bytesIn, bytesOut int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if o < 0 || o >= numOutcomes {
		o = OutcomeInternal
	}
	r.counts[o].Add(1)
	if bytesIn > 0 {
		r.bytesIn.Add(uint64(bytesIn))
	}
	if bytesOut > 0 {
		r.bytesOut.Add(uint64(bytesOut))
	}

	ns := int64(elapsed)
	r.total.Add(ns)
	for {
		cur := r.max.Load()
		if ns <= cur || r.max.CompareAndSwap(cur, ns) {
			break
		}
	}
}

// Reset zeroes every counter.
func (r *Recorder) Reset() {
	for i := range r.counts {
		r.counts[i].Store(0)
	}
	r.bytesIn.Store(0)
	r.bytesOut.Store(0)
	r.total.Store(0)
	r.max.Store(0)
}

// Snapshot is a point-in-time copy of a Recorder. Fields are read one at a
// time, so a snapshot taken under load may be slightly inconsistent.
type Snapshot struct {
	Counts       [numOutcomes]uint64
	BytesIn      uint64
	BytesOut     uint64
	TotalLatency time.Duration
	MaxLatency   time.Duration
}

// Snapshot returns the current counters.
func (r *Recorder) Snapshot() Snapshot {
	var s Snapshot
	if r == nil {
		return s
	}
	for i := range r.counts {
		s.Counts[i] = r.counts[i].Load()
	}
	s.BytesIn = r.bytesIn.Load()
	s.BytesOut = r.bytesOut.Load()
	s.TotalLatency = time.Duration(r.total.Load())
	s.MaxLatency = time.Duration(r.max.Load())
	return s
}

// Count returns the number of requests with outcome o.
func (s Snapshot) Count(o Outcome) uint64 {
	if o < 0 || o >= numOutcomes {
		return 0
	}
	return s.Counts[o]
}

// Requests returns the number of requests of any outcome.
func (s Snapshot) Requests() uint64 {
	var n uint64
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// AverageLatency returns TotalLatency / Requests, or 0 with no requests.
func (s Snapshot) AverageLatency() time.Duration {
	n := s.Requests()
	if n == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(n)
}

// String formats the snapshot on one line.
func (s Snapshot) String() string {
	return fmt.Sprintf("requests=%d ok=%d invalid=%d alloc_failed=%d internal=%d in=%dB out=%dB avg=%v max=%v",
		s.Requests(),
		s.Counts[OutcomeOK], s.Counts[OutcomeInvalidArgument],
		s.Counts[OutcomeAllocFailed], s.Counts[OutcomeInternal],
		s.BytesIn, s.BytesOut, s.AverageLatency(), s.MaxLatency)
}
