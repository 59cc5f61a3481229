package record

import (
	"errors"
	"testing"
	"time"

	"github.com/magden/dashd/internal/telemetry"
)

var t0 = time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

func TestRecorderIngestIdleOnlyBuffers(t *testing.T) {
	sink := &FakeSink{}
	open, opens := FakeOpener(sink, nil)
	r := New(10, 5*time.Minute, open)

	for i := 0; i < 3; i++ {
		if err := r.Ingest(sampleAt(i)); err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}

	if *opens != 0 {
		t.Errorf("sink opened while idle: %d opens", *opens)
	}
	if len(sink.Samples) != 0 {
		t.Errorf("sink received %d samples while idle", len(sink.Samples))
	}
	if st := r.Status(); st.Active || st.Buffered != 3 {
		t.Errorf("status: got %+v, want inactive with 3 buffered", st)
	}
}

func TestRecorderStartWritesPreRoll(t *testing.T) {
	sink := &FakeSink{}
	open, _ := FakeOpener(sink, nil)
	r := New(10, 5*time.Minute, open)

	for i := 0; i < 4; i++ {
		r.Ingest(sampleAt(i))
	}
	if err := r.Start(t0.Add(4 * time.Second)); err != nil {
		t.Fatalf("start: %v", err)
	}

	if len(sink.Samples) != 4 {
		t.Fatalf("pre-roll: got %d samples, want 4", len(sink.Samples))
	}
	for i, s := range sink.Samples {
		if s.Value(telemetry.RPM) != float64(i) {
			t.Errorf("pre-roll item %d out of order: got %v", i, s.Value(telemetry.RPM))
		}
	}
}

func TestRecorderExactlyOncePerSample(t *testing.T) {
	// N buffered + M live ingests = exactly N+M records, no gaps, no dups.
	sink := &FakeSink{}
	open, _ := FakeOpener(sink, nil)
	r := New(300, 5*time.Minute, open)

	n, m := 7, 11
	for i := 0; i < n; i++ {
		r.Ingest(sampleAt(i))
	}
	if err := r.Start(t0.Add(time.Duration(n) * time.Second)); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := n; i < n+m; i++ {
		if err := r.Ingest(sampleAt(i)); err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}

	if len(sink.Samples) != n+m {
		t.Fatalf("records: got %d, want %d", len(sink.Samples), n+m)
	}
	seen := map[float64]bool{}
	for i, s := range sink.Samples {
		v := s.Value(telemetry.RPM)
		if v != float64(i) {
			t.Errorf("record %d: got %v, want %d", i, v, i)
		}
		if seen[v] {
			t.Errorf("duplicate record %v", v)
		}
		seen[v] = true
	}
	if st := r.Status(); st.Written != n+m {
		t.Errorf("written: got %d, want %d", st.Written, n+m)
	}
}

func TestRecorderStartIdempotent(t *testing.T) {
	sink := &FakeSink{}
	open, opens := FakeOpener(sink, nil)
	r := New(10, 5*time.Minute, open)

	if err := r.Start(t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	first := r.Status()

	if err := r.Start(t0.Add(time.Minute)); err != nil {
		t.Fatalf("second start: %v", err)
	}
	second := r.Status()

	if *opens != 1 {
		t.Errorf("opens: got %d, want 1", *opens)
	}
	if !second.StartedAt.Equal(first.StartedAt) || !second.EndsAt.Equal(first.EndsAt) {
		t.Errorf("second start moved the session window: %+v vs %+v", first, second)
	}
}

func TestRecorderTickClosesAtBoundary(t *testing.T) {
	sink := &FakeSink{}
	open, _ := FakeOpener(sink, nil)
	r := New(10, 5*time.Minute, open)

	if err := r.Start(t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	endsAt := r.Status().EndsAt
	if want := t0.Add(5 * time.Minute); !endsAt.Equal(want) {
		t.Fatalf("endsAt: got %v, want %v", endsAt, want)
	}

	// Before and exactly at the boundary: no close.
	if err := r.Tick(endsAt.Add(-time.Second)); err != nil {
		t.Fatalf("tick before boundary: %v", err)
	}
	if err := r.Tick(endsAt); err != nil {
		t.Fatalf("tick at boundary: %v", err)
	}
	if !r.Status().Active {
		t.Fatal("session closed at or before the boundary")
	}

	// Past the boundary: closed exactly once.
	if err := r.Tick(endsAt.Add(time.Millisecond)); err != nil {
		t.Fatalf("tick past boundary: %v", err)
	}
	if r.Status().Active {
		t.Fatal("session still active past the boundary")
	}
	if sink.CloseCalls != 1 {
		t.Errorf("close calls: got %d, want 1", sink.CloseCalls)
	}

	// Ticking again must not close (or error) twice.
	if err := r.Tick(endsAt.Add(time.Hour)); err != nil {
		t.Fatalf("tick after close: %v", err)
	}
	if sink.CloseCalls != 1 {
		t.Errorf("close calls after extra tick: got %d, want 1", sink.CloseCalls)
	}
}

func TestRecorderOpenFailureLeavesInactive(t *testing.T) {
	open, _ := FakeOpener(nil, errors.New("disk full"))
	r := New(10, 5*time.Minute, open)

	if err := r.Start(t0); err == nil {
		t.Fatal("expected error from failed open")
	}
	if r.Status().Active {
		t.Error("failed start left a half-open session")
	}

	// The recorder keeps working: ingest still buffers.
	if err := r.Ingest(sampleAt(1)); err != nil {
		t.Fatalf("ingest after failed start: %v", err)
	}
}

func TestRecorderWriteFailureForcesClose(t *testing.T) {
	sink := &FakeSink{}
	open, _ := FakeOpener(sink, nil)
	r := New(10, 5*time.Minute, open)

	if err := r.Start(t0); err != nil {
		t.Fatalf("start: %v", err)
	}

	sink.WriteError = errors.New("io error")
	err := r.Ingest(sampleAt(1))
	if err == nil {
		t.Fatal("expected error from failed write")
	}
	if r.Status().Active {
		t.Error("session still active after write failure")
	}
	if sink.CloseCalls != 1 {
		t.Errorf("close calls: got %d, want 1", sink.CloseCalls)
	}

	// Subsequent ingests buffer without error.
	sink.WriteError = nil
	if err := r.Ingest(sampleAt(2)); err != nil {
		t.Fatalf("ingest after forced close: %v", err)
	}
	if len(sink.Samples) != 0 {
		t.Errorf("sink received %d samples after forced close", len(sink.Samples))
	}
}

func TestRecorderPreRollFailureLeavesInactive(t *testing.T) {
	sink := &FakeSink{WriteError: errors.New("io error")}
	open, _ := FakeOpener(sink, nil)
	r := New(10, 5*time.Minute, open)

	r.Ingest(sampleAt(0))
	if err := r.Start(t0.Add(time.Second)); err == nil {
		t.Fatal("expected error from failed pre-roll write")
	}
	if r.Status().Active {
		t.Error("failed pre-roll left a half-open session")
	}
	if sink.CloseCalls != 1 {
		t.Errorf("close calls: got %d, want 1", sink.CloseCalls)
	}
}

func TestRecorderShutdownFlushes(t *testing.T) {
	sink := &FakeSink{}
	open, _ := FakeOpener(sink, nil)
	r := New(10, 5*time.Minute, open)

	if err := r.Start(t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := r.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if sink.CloseCalls != 1 {
		t.Errorf("close calls: got %d, want 1", sink.CloseCalls)
	}

	// Shutdown with no active session is a no-op.
	if err := r.Shutdown(); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
	if sink.CloseCalls != 1 {
		t.Errorf("close calls after second shutdown: got %d, want 1", sink.CloseCalls)
	}
}

func TestRecorderStopBeforeEnd(t *testing.T) {
	sink := &FakeSink{}
	open, _ := FakeOpener(sink, nil)
	r := New(10, 5*time.Minute, open)

	if err := r.Start(t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	r.Ingest(sampleAt(1))
	if err := r.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if r.Status().Active {
		t.Error("session active after stop")
	}

	// A new session can start afterwards.
	if err := r.Start(t0.Add(time.Minute)); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if !r.Status().Active {
		t.Error("restart did not open a session")
	}
}
