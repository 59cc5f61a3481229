package telemetry

// Unit identifies the raw unit providers report for a channel.
type Unit int

const (
	// None means the raw value is already in display units.
	None Unit = iota
	// Celsius converts to Fahrenheit for display.
	Celsius
	// MetersPerSecond converts to miles per hour.
	MetersPerSecond
	// KiloPascal converts to PSI.
	KiloPascal
	// Fraction converts [0,1] to percent.
	Fraction
)

const (
	msToMPH  = 2.23694
	kPaToPSI = 0.145038
)

var rawUnits = [NumChannels]Unit{
	RPM:           None,
	Speed:         MetersPerSecond,
	WaterTemp:     Celsius,
	OilTemp:       Celsius,
	IntakeTemp:    Celsius,
	OilPress:      KiloPascal,
	ManifoldPress: KiloPascal,
	FuelPct:       Fraction,
	Voltage:       None,
	Throttle:      Fraction,
	Brake:         Fraction,
	Clutch:        Fraction,
	Gear:          None,
}

// RawUnit returns the unit providers report for c.
func (c Channel) RawUnit() Unit {
	if !c.Known() {
		return None
	}
	return rawUnits[c]
}

// Convert maps a raw reading to display units. An absent reading converts to
// an absent reading; the converter never fabricates a value. The per-channel
// default policy is applied downstream by the aggregator.
func Convert(r Reading) Reading {
	if !r.Valid {
		return r
	}
	switch r.Channel.RawUnit() {
	case Celsius:
		r.Value = r.Value*9/5 + 32
	case MetersPerSecond:
		r.Value *= msToMPH
	case KiloPascal:
		r.Value *= kPaToPSI
	case Fraction:
		r.Value *= 100
	}
	return r
}

// disconnectDefaults are the values rendered for a channel with no reading.
// Voltage idles at a nominal healthy 13.5 V; everything else reads zero.
var disconnectDefaults = [NumChannels]float64{
	Voltage: 13.5,
}

// DefaultValue returns the display value used for c when no reading is
// available (provider disconnected or channel absent).
func (c Channel) DefaultValue() float64 {
	if !c.Known() {
		return 0
	}
	return disconnectDefaults[c]
}

// displayMax holds the full-scale display value per channel, used by
// renderers to normalize gauges and bars.
var displayMax = [NumChannels]float64{
	RPM:           10000,
	Speed:         200,
	WaterTemp:     300,
	OilTemp:       300,
	IntakeTemp:    300,
	OilPress:      150,
	ManifoldPress: 50,
	FuelPct:       100,
	Voltage:       20,
	Throttle:      100,
	Brake:         100,
	Clutch:        100,
	Gear:          6,
}

// DisplayMax returns the full-scale display value for c.
func (c Channel) DisplayMax() float64 {
	if !c.Known() {
		return 0
	}
	return displayMax[c]
}
