package dash

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/magden/dashd/internal/provider"
	"github.com/magden/dashd/internal/telemetry"
)

var start = time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

func newAggregatorUnderTest(fake *provider.Fake) *Aggregator {
	sup := provider.NewSupervisor(fake, time.Second, func() time.Time { return start })
	return NewAggregator(sup, DefaultValues(), start)
}

func TestAggregatorConvertsRawUnits(t *testing.T) {
	fake := provider.NewFake()
	fake.Set(telemetry.WaterTemp, 100) // °C
	fake.Set(telemetry.Speed, 10)      // m/s
	fake.Set(telemetry.OilPress, 100)  // kPa
	fake.Set(telemetry.Throttle, 0.5)  // fraction
	fake.Set(telemetry.RPM, 4500)

	agg := newAggregatorUnderTest(fake)
	s := agg.Sample(start.Add(time.Second))

	if got := s.Value(telemetry.WaterTemp); got != 212 {
		t.Errorf("water temp: got %v°F, want 212", got)
	}
	if got := s.Value(telemetry.Speed); math.Abs(got-22.3694) > 1e-4 {
		t.Errorf("speed: got %v mph, want 22.3694", got)
	}
	if got := s.Value(telemetry.OilPress); math.Abs(got-14.5038) > 1e-4 {
		t.Errorf("oil pressure: got %v psi, want 14.5038", got)
	}
	if got := s.Value(telemetry.Throttle); got != 50 {
		t.Errorf("throttle: got %v%%, want 50", got)
	}
	if got := s.Value(telemetry.RPM); got != 4500 {
		t.Errorf("rpm: got %v, want 4500", got)
	}
}

func TestAggregatorSharedTimestamp(t *testing.T) {
	fake := provider.NewFake()
	agg := newAggregatorUnderTest(fake)

	now := start.Add(3 * time.Second)
	s := agg.Sample(now)

	if !s.Time.Equal(now) {
		t.Errorf("timestamp: got %v, want %v", s.Time, now)
	}
	if s.Elapsed != 3*time.Second {
		t.Errorf("elapsed: got %v, want 3s", s.Elapsed)
	}
}

func TestAggregatorAbsentChannelGetsDefault(t *testing.T) {
	fake := provider.NewFake()
	fake.Set(telemetry.RPM, 3000)
	// Everything else unscripted, i.e. absent.

	agg := newAggregatorUnderTest(fake)
	s := agg.Sample(start)

	if got := s.Value(telemetry.Voltage); got != 13.5 {
		t.Errorf("absent voltage: got %v, want 13.5", got)
	}
	if got := s.Value(telemetry.WaterTemp); got != 0 {
		t.Errorf("absent water temp: got %v, want 0", got)
	}
	if got := s.Value(telemetry.RPM); got != 3000 {
		t.Errorf("present rpm: got %v, want 3000", got)
	}
}

func TestAggregatorDisconnectedYieldsAllDefaults(t *testing.T) {
	fake := provider.NewFake()
	for _, ch := range telemetry.Channels {
		fake.Set(ch, 99)
	}
	fake.Up = false
	fake.ReconnectError = errors.New("unreachable")

	agg := newAggregatorUnderTest(fake)
	s := agg.Sample(start)

	for _, ch := range telemetry.Channels {
		want := ch.DefaultValue()
		if got := s.Value(ch); got != want {
			t.Errorf("%s while disconnected: got %v, want %v", ch, got, want)
		}
	}
}
