// Package telemetry defines the channel set, raw readings, and the immutable
// per-tick Sample record shared by providers, the recorder, and the renderer.
// This package has NO external dependencies; time is always passed in.
package telemetry

import "time"

// Channel identifies one telemetry quantity.
type Channel int

const (
	RPM Channel = iota
	Speed
	WaterTemp
	OilTemp
	IntakeTemp
	OilPress
	ManifoldPress
	FuelPct
	Voltage
	Throttle
	Brake
	Clutch
	Gear

	// NumChannels is the size of the closed channel set.
	NumChannels
)

// Channels lists every channel in canonical order. This ordering is the
// single source of truth wherever a stable column order is needed (CSV
// header, MQTT topic suffixes, status output).
var Channels = [NumChannels]Channel{
	RPM, Speed, WaterTemp, OilTemp, IntakeTemp,
	OilPress, ManifoldPress, FuelPct, Voltage,
	Throttle, Brake, Clutch, Gear,
}

var channelNames = [NumChannels]string{
	RPM:           "rpm",
	Speed:         "speed",
	WaterTemp:     "water_temp",
	OilTemp:       "oil_temp",
	IntakeTemp:    "intake_temp",
	OilPress:      "oil_press",
	ManifoldPress: "manifold_press",
	FuelPct:       "fuel_pct",
	Voltage:       "voltage",
	Throttle:      "throttle",
	Brake:         "brake",
	Clutch:        "clutch",
	Gear:          "gear",
}

var channelsByName = func() map[string]Channel {
	m := make(map[string]Channel, NumChannels)
	for _, ch := range Channels {
		m[channelNames[ch]] = ch
	}
	return m
}()

// String returns the stable lowercase name of the channel.
func (c Channel) String() string {
	if !c.Known() {
		return "unknown"
	}
	return channelNames[c]
}

// Known reports whether c is a member of the closed channel set.
func (c Channel) Known() bool {
	return c >= 0 && c < NumChannels
}

// ChannelByName looks up a channel by its stable name.
func ChannelByName(name string) (Channel, bool) {
	ch, ok := channelsByName[name]
	return ch, ok
}

// Reading is one raw value from a provider. Valid=false means the channel is
// absent this tick, a normal state distinct from zero.
type Reading struct {
	Channel Channel
	Value   float64
	Valid   bool
}

// Observed returns a valid reading for ch.
func Observed(ch Channel, value float64) Reading {
	return Reading{Channel: ch, Value: value, Valid: true}
}

// Absent returns an absent reading for ch.
func Absent(ch Channel) Reading {
	return Reading{Channel: ch}
}

// Sample is one tick's converted channel values, all taken at the same
// instant. A Sample is never mutated after construction; the aggregator
// builds it and everything downstream only reads it.
type Sample struct {
	// Time is the wall-clock timestamp shared by every value in the sample.
	Time time.Time
	// Elapsed is the monotonic offset from loop start.
	Elapsed time.Duration

	values [NumChannels]float64
}

// NewSample builds a sample from a full set of converted channel values.
func NewSample(ts time.Time, elapsed time.Duration, values [NumChannels]float64) Sample {
	return Sample{Time: ts, Elapsed: elapsed, values: values}
}

// Value returns the converted display value for ch. Unknown channels read
// as zero.
func (s Sample) Value(ch Channel) float64 {
	if !ch.Known() {
		return 0
	}
	return s.values[ch]
}
