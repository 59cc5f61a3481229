package provider

import (
	"math"
	"sync"
	"time"

	"github.com/magden/dashd/internal/telemetry"
)

// waveform describes one channel's synthetic signal in raw provider units
// (°C, m/s, kPa, fractions) so the full conversion path is exercised.
type waveform struct {
	base, amplitude, frequency float64
}

// syntheticWaveforms give each channel a plausible idle-to-redline sweep.
var syntheticWaveforms = [telemetry.NumChannels]waveform{
	telemetry.RPM:           {4000, 3000, 0.5},
	telemetry.Speed:         {30, 25, 0.5},   // m/s
	telemetry.WaterTemp:     {85, 15, 0.5},   // °C
	telemetry.OilTemp:       {95, 20, 0.5},   // °C
	telemetry.IntakeTemp:    {30, 12, 0.5},   // °C
	telemetry.OilPress:      {300, 100, 0.5}, // kPa
	telemetry.ManifoldPress: {120, 80, 0.5},  // kPa
	telemetry.FuelPct:       {0.5, 0.5, 0.5}, // fraction
	telemetry.Voltage:       {13.5, 0.8, 0.5},
	telemetry.Throttle:      {0.4, 0.3, 0.5}, // fraction
	telemetry.Brake:         {0.2, 0.2, 0.5}, // fraction
	telemetry.Clutch:        {0.1, 0.1, 0.5}, // fraction
	telemetry.Gear:          {3, 2, 0.5},
}

// Synthetic generates deterministic telemetry as a pure function of time,
// used when no live source is reachable. Two calls at the same instant
// return identical readings for every channel.
type Synthetic struct {
	clock func() time.Time

	mu    sync.Mutex
	codes []DiagnosticCode
}

// NewSynthetic creates a synthetic provider using the given clock
// (nil means time.Now). It starts with two canned trouble codes so the
// diagnostics screen has something to show and clear.
func NewSynthetic(clock func() time.Time) *Synthetic {
	if clock == nil {
		clock = time.Now
	}
	return &Synthetic{
		clock: clock,
		codes: []DiagnosticCode{
			{Code: "P0301", Description: "Cylinder 1 Misfire Detected"},
			{Code: "P0420", Description: "Catalyst System Efficiency Below Threshold"},
		},
	}
}

// Read returns the waveform value for ch at the current clock time.
func (s *Synthetic) Read(ch telemetry.Channel) telemetry.Reading {
	return s.ReadAt(ch, s.clock())
}

// ReadAt returns the waveform value for ch at the given instant. Exposed so
// callers can assert exact values for a fixed timestamp.
func (s *Synthetic) ReadAt(ch telemetry.Channel, at time.Time) telemetry.Reading {
	if !ch.Known() {
		return telemetry.Absent(ch)
	}
	w := syntheticWaveforms[ch]
	t := float64(at.UnixNano()) / float64(time.Second)
	v := w.base + w.amplitude*math.Sin(t*w.frequency)
	if ch == telemetry.Gear {
		v = math.Floor(v)
	}
	return telemetry.Observed(ch, v)
}

// Connected always reports true; the generator has no transport to lose.
func (s *Synthetic) Connected() bool { return true }

// Reconnect is a no-op.
func (s *Synthetic) Reconnect() error { return nil }

// Close is a no-op.
func (s *Synthetic) Close() error { return nil }

// DiagnosticCodes returns the stored trouble codes.
func (s *Synthetic) DiagnosticCodes() []DiagnosticCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DiagnosticCode, len(s.codes))
	copy(out, s.codes)
	return out
}

// ClearDiagnosticCodes clears the stored trouble codes.
func (s *Synthetic) ClearDiagnosticCodes() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = nil
	return nil
}
