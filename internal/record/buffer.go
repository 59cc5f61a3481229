// Package record owns the rolling pre-roll buffer and the session-bounded
// durable logging of telemetry samples.
package record

import "github.com/magden/dashd/internal/telemetry"

// rollingBuffer is a fixed-capacity FIFO of recent samples, kept so a
// recording session can include pre-trigger context. When full, the oldest
// sample is evicted first.
// Not safe for concurrent use; the Recorder owns it.
type rollingBuffer struct {
	buf      []telemetry.Sample
	capacity int
	head     int // next write position
	count    int
}

func newRollingBuffer(capacity int) *rollingBuffer {
	return &rollingBuffer{
		buf:      make([]telemetry.Sample, capacity),
		capacity: capacity,
	}
}

func (r *rollingBuffer) push(s telemetry.Sample) {
	if r.count == r.capacity {
		// Overwrite oldest: head is already pointing at it
		r.buf[r.head] = s
		r.head = (r.head + 1) % r.capacity
		return
	}
	r.buf[r.head] = s
	r.head = (r.head + 1) % r.capacity
	r.count++
}

// snapshot returns the buffered samples in chronological order without
// draining them; the pre-roll stays available for the next session.
func (r *rollingBuffer) snapshot() []telemetry.Sample {
	if r.count == 0 {
		return nil
	}

	result := make([]telemetry.Sample, r.count)
	// Oldest item is at (head - count) mod capacity
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(start+i)%r.capacity]
	}
	return result
}

func (r *rollingBuffer) len() int {
	return r.count
}
