// Package dash drives the per-tick pipeline: pending input commands, channel
// sampling, session recording, and the render handoff, strictly in that
// order on a single timeline.
package dash

import (
	"time"

	"github.com/magden/dashd/internal/provider"
	"github.com/magden/dashd/internal/telemetry"
)

// Aggregator builds one immutable Sample per tick from supervised channel
// reads. Every value in a sample shares one timestamp; readings from two
// different ticks are never mixed.
type Aggregator struct {
	sup      *provider.Supervisor
	defaults [telemetry.NumChannels]float64
	start    time.Time
}

// NewAggregator creates an aggregator reading through sup. defaults supplies
// the per-channel display value used when a channel is absent or the
// provider is down; start anchors the monotonic elapsed field.
func NewAggregator(sup *provider.Supervisor, defaults [telemetry.NumChannels]float64, start time.Time) *Aggregator {
	return &Aggregator{sup: sup, defaults: defaults, start: start}
}

// Sample reads every channel at the shared timestamp now, converts to
// display units, and fills absent channels with their defaults. All screens
// sample the full channel set; screen selection never changes what is
// recorded.
func (a *Aggregator) Sample(now time.Time) telemetry.Sample {
	var vals [telemetry.NumChannels]float64
	for _, ch := range telemetry.Channels {
		r := telemetry.Convert(a.sup.Read(ch))
		if r.Valid {
			vals[ch] = r.Value
		} else {
			vals[ch] = a.defaults[ch]
		}
	}
	return telemetry.NewSample(now, now.Sub(a.start), vals)
}

// DefaultValues returns the built-in per-channel disconnect defaults.
func DefaultValues() [telemetry.NumChannels]float64 {
	var d [telemetry.NumChannels]float64
	for _, ch := range telemetry.Channels {
		d[ch] = ch.DefaultValue()
	}
	return d
}
