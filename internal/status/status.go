// Package status provides a thread-safe status tracker for the dashd
// daemon. The dashboard loop writes it once per tick; HTTP handlers read it.
package status

import (
	"sync"
	"time"

	"github.com/magden/dashd/internal/provider"
	"github.com/magden/dashd/internal/record"
	"github.com/magden/dashd/internal/telemetry"
)

// Config contains daemon configuration for display.
type Config struct {
	TickHz          float64
	CheckIntervalMs int64
	BufferCapacity  int
	SessionSec      int64
	Provider        string
	Broker          string
	HTTPAddr        string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Connection provider.State
	Recording  record.Status
	Screen     int
	Sample     telemetry.Sample
	HaveSample bool
	Ticks      int64
	Reconnects int
	LastError  string
	StartTime  time.Time
	Now        time.Time
	Config     Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the per-tick state. Called from the dashboard loop on every
// tick.
func (t *Tracker) Update(sample telemetry.Sample, conn provider.State, rec record.Status, screen int, reconnects int) {
	t.mu.Lock()
	t.snap.Sample = sample
	t.snap.HaveSample = true
	t.snap.Connection = conn
	t.snap.Recording = rec
	t.snap.Screen = screen
	t.snap.Reconnects = reconnects
	t.snap.Ticks++
	t.mu.Unlock()
}

// SetLastError records the most recent recording failure for display.
func (t *Tracker) SetLastError(msg string) {
	t.mu.Lock()
	t.snap.LastError = msg
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
