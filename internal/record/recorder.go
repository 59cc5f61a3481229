package record

import (
	"fmt"
	"log"
	"time"

	"github.com/magden/dashd/internal/telemetry"
)

// Status describes the recorder for status and rendering consumers.
type Status struct {
	Active    bool
	StartedAt time.Time
	EndsAt    time.Time
	// Written counts records written to the sink this session, pre-roll
	// included.
	Written int
	// Buffered is the current pre-roll buffer length.
	Buffered int
}

// Recorder owns the rolling pre-roll buffer and at most one active recording
// session. Every sample ingested while a session is active is appended to
// the sink synchronously, in arrival order, exactly once.
// Not safe for concurrent use; the dashboard loop owns it.
type Recorder struct {
	buffer   *rollingBuffer
	open     SinkOpener
	duration time.Duration

	active    bool
	startedAt time.Time
	endsAt    time.Time
	sink      Sink
	written   int
}

// New creates a Recorder with the given pre-roll capacity (in samples) and
// fixed session duration. open is called once per session start.
func New(capacity int, duration time.Duration, open SinkOpener) *Recorder {
	return &Recorder{
		buffer:   newRollingBuffer(capacity),
		open:     open,
		duration: duration,
	}
}

// Ingest appends s to the pre-roll buffer and, while a session is active,
// synchronously to the sink. A sink write failure forcibly closes the
// session and is returned; the interrupted tail is not retried. The buffer
// keeps s either way.
func (r *Recorder) Ingest(s telemetry.Sample) error {
	r.buffer.push(s)
	if !r.active {
		return nil
	}
	if err := r.sink.WriteSample(s); err != nil {
		if closeErr := r.closeSession(); closeErr != nil {
			log.Printf("recorder: close after write failure: %v", closeErr)
		}
		return fmt.Errorf("write sample: %w", err)
	}
	r.written++
	return nil
}

// Start opens a new session: the sink is created, the pre-roll buffer is
// written oldest-first, and the session end is fixed at now + duration.
// Start is a no-op while a session is already active. If the sink cannot be
// opened or the pre-roll cannot be written, no session is left half-open.
func (r *Recorder) Start(now time.Time) error {
	if r.active {
		return nil
	}

	sink, err := r.open(now)
	if err != nil {
		return fmt.Errorf("open sink: %w", err)
	}

	written := 0
	for _, s := range r.buffer.snapshot() {
		if err := sink.WriteSample(s); err != nil {
			if closeErr := sink.Close(); closeErr != nil {
				log.Printf("recorder: close after pre-roll failure: %v", closeErr)
			}
			return fmt.Errorf("write pre-roll: %w", err)
		}
		written++
	}

	r.sink = sink
	r.active = true
	r.startedAt = now
	r.endsAt = now.Add(r.duration)
	r.written = written
	log.Printf("recording started: %d pre-roll samples, ends %s", written, r.endsAt.Format(time.RFC3339))
	return nil
}

// Tick closes the active session once now is past its end time. It must be
// called once per frame; the recorder does not self-schedule. Calling it
// with no active session, or again after the session closed, is a no-op.
func (r *Recorder) Tick(now time.Time) error {
	if !r.active || !now.After(r.endsAt) {
		return nil
	}
	log.Printf("recording complete: %d samples", r.written)
	if err := r.closeSession(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}

// Stop closes the active session before its end time. A no-op when idle.
func (r *Recorder) Stop() error {
	if !r.active {
		return nil
	}
	log.Printf("recording stopped: %d samples", r.written)
	if err := r.closeSession(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}

// Shutdown deterministically closes any active session. Callers invoke it
// from every process exit path so the sink is always flushed.
func (r *Recorder) Shutdown() error {
	return r.Stop()
}

// Status returns the recorder's current state.
func (r *Recorder) Status() Status {
	return Status{
		Active:    r.active,
		StartedAt: r.startedAt,
		EndsAt:    r.endsAt,
		Written:   r.written,
		Buffered:  r.buffer.len(),
	}
}

func (r *Recorder) closeSession() error {
	sink := r.sink
	r.active = false
	r.sink = nil
	if sink == nil {
		return nil
	}
	return sink.Close()
}
