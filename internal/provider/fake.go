package provider

import "github.com/magden/dashd/internal/telemetry"

// Fake is a scriptable provider for tests.
type Fake struct {
	// Readings holds the current reading per channel. Channels without an
	// entry read as absent.
	Readings map[telemetry.Channel]telemetry.Reading

	// Up controls the return value of Connected.
	Up bool

	// ReconnectError, if set, is returned by Reconnect. When nil, a
	// Reconnect call also sets Up to true.
	ReconnectError error

	// ReconnectCalls counts Reconnect invocations.
	ReconnectCalls int

	// ConnectedCalls counts Connected invocations.
	ConnectedCalls int

	// Closed tracks whether Close was called.
	Closed bool

	// Codes holds the fake's diagnostic codes.
	Codes []DiagnosticCode

	// ClearCalls counts ClearDiagnosticCodes invocations.
	ClearCalls int
}

// NewFake creates a connected Fake with no readings.
func NewFake() *Fake {
	return &Fake{
		Readings: make(map[telemetry.Channel]telemetry.Reading),
		Up:       true,
	}
}

// Set scripts a valid reading for ch.
func (f *Fake) Set(ch telemetry.Channel, value float64) {
	f.Readings[ch] = telemetry.Observed(ch, value)
}

// SetAbsent scripts an absent reading for ch.
func (f *Fake) SetAbsent(ch telemetry.Channel) {
	f.Readings[ch] = telemetry.Absent(ch)
}

// Read returns the scripted reading for ch, or absent if none is scripted.
func (f *Fake) Read(ch telemetry.Channel) telemetry.Reading {
	if r, ok := f.Readings[ch]; ok {
		return r
	}
	return telemetry.Absent(ch)
}

// Connected returns the scripted connectivity.
func (f *Fake) Connected() bool {
	f.ConnectedCalls++
	return f.Up
}

// Reconnect records the call and applies the scripted outcome.
func (f *Fake) Reconnect() error {
	f.ReconnectCalls++
	if f.ReconnectError != nil {
		return f.ReconnectError
	}
	f.Up = true
	return nil
}

// Close marks the provider as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// DiagnosticCodes returns the scripted codes.
func (f *Fake) DiagnosticCodes() []DiagnosticCode {
	return f.Codes
}

// ClearDiagnosticCodes clears the scripted codes.
func (f *Fake) ClearDiagnosticCodes() error {
	f.ClearCalls++
	f.Codes = nil
	return nil
}
