// Package provider supplies raw telemetry readings from a live vehicle
// interface or a synthetic waveform generator, behind one interface the rest
// of the daemon does not distinguish. The Supervisor wraps either variant
// with throttled health checks and fail-soft reads.
package provider

import "github.com/magden/dashd/internal/telemetry"

// Provider is a source of raw telemetry readings.
type Provider interface {
	// Read returns the current raw reading for ch. Unsupported channels
	// yield an absent reading. Read never blocks beyond the provider's
	// internal timeout and never panics.
	Read(ch telemetry.Channel) telemetry.Reading

	// Connected reports whether the underlying transport is usable.
	Connected() bool

	// Reconnect attempts to (re)establish the transport. It is bounded in
	// time and safe to call while already connected.
	Reconnect() error

	// Close releases transport resources.
	Close() error
}

// DiagnosticCode is one stored trouble code reported by a provider.
type DiagnosticCode struct {
	Code        string
	Description string
}

// Diagnostics is an optional provider capability for reading and clearing
// stored trouble codes.
type Diagnostics interface {
	// DiagnosticCodes returns the currently stored codes.
	DiagnosticCodes() []DiagnosticCode

	// ClearDiagnosticCodes clears all stored codes.
	ClearDiagnosticCodes() error
}
