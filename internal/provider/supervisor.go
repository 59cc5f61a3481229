package provider

import (
	"log"
	"time"

	"github.com/magden/dashd/internal/telemetry"
)

// State is the supervisor's view of provider connectivity.
type State int

const (
	Unchecked State = iota
	Connected
	Disconnected
)

func (s State) String() string {
	switch s {
	case Connected:
		return "CONNECTED"
	case Disconnected:
		return "DISCONNECTED"
	default:
		return "UNCHECKED"
	}
}

// Supervisor wraps a Provider with throttled health checks, automatic
// reconnect attempts, and fail-soft reads. A failed probe or reconnect never
// propagates out of the supervisor; it becomes state the caller can inspect.
// Not safe for concurrent use; the dashboard loop owns it.
type Supervisor struct {
	provider      Provider
	checkInterval time.Duration
	clock         func() time.Time

	state      State
	lastCheck  time.Time
	reconnects int
}

// NewSupervisor wraps p. checkInterval bounds how often IsConnected probes
// the transport; clock may be nil for time.Now.
func NewSupervisor(p Provider, checkInterval time.Duration, clock func() time.Time) *Supervisor {
	if clock == nil {
		clock = time.Now
	}
	return &Supervisor{
		provider:      p,
		checkInterval: checkInterval,
		clock:         clock,
	}
}

// IsConnected returns the current connectivity, probing the transport (and
// attempting a reconnect if it is down) at most once per check interval.
func (s *Supervisor) IsConnected() bool {
	now := s.clock()
	if s.state == Unchecked || now.Sub(s.lastCheck) >= s.checkInterval {
		s.check(now)
	}
	return s.state == Connected
}

func (s *Supervisor) check(now time.Time) {
	s.lastCheck = now
	if s.provider.Connected() {
		s.setState(Connected)
		return
	}
	s.attemptReconnect()
}

// Reconnect forces an immediate reconnect attempt regardless of the check
// interval and resets the throttle window.
func (s *Supervisor) Reconnect() {
	s.lastCheck = s.clock()
	s.attemptReconnect()
}

func (s *Supervisor) attemptReconnect() {
	s.reconnects++
	if err := s.provider.Reconnect(); err != nil {
		log.Printf("provider reconnect failed: %v", err)
		s.setState(Disconnected)
		return
	}
	if s.provider.Connected() {
		s.setState(Connected)
	} else {
		s.setState(Disconnected)
	}
}

func (s *Supervisor) setState(next State) {
	if s.state == next {
		return
	}
	switch next {
	case Connected:
		log.Printf("provider connected")
	case Disconnected:
		if s.state == Connected {
			log.Printf("provider connection lost")
		}
	}
	s.state = next
}

// Read returns the provider's raw reading for ch, or an absent reading when
// the provider is down. The aggregator maps absent readings to the
// per-channel disconnect defaults after unit conversion.
func (s *Supervisor) Read(ch telemetry.Channel) telemetry.Reading {
	if !s.IsConnected() {
		return telemetry.Absent(ch)
	}
	return s.provider.Read(ch)
}

// State returns the current connectivity state without probing.
func (s *Supervisor) State() State { return s.state }

// Reconnects returns the number of reconnect attempts made so far.
func (s *Supervisor) Reconnects() int { return s.reconnects }

// DiagnosticCodes returns the wrapped provider's stored trouble codes, or
// nil if the provider has no diagnostics capability.
func (s *Supervisor) DiagnosticCodes() []DiagnosticCode {
	if d, ok := s.provider.(Diagnostics); ok {
		return d.DiagnosticCodes()
	}
	return nil
}

// ClearDiagnosticCodes clears the wrapped provider's trouble codes. It is a
// no-op for providers without the diagnostics capability.
func (s *Supervisor) ClearDiagnosticCodes() error {
	if d, ok := s.provider.(Diagnostics); ok {
		return d.ClearDiagnosticCodes()
	}
	return nil
}
