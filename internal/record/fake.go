package record

import (
	"time"

	"github.com/magden/dashd/internal/telemetry"
)

// FakeSink records written samples for test assertions.
type FakeSink struct {
	// Samples contains every sample written, in order.
	Samples []telemetry.Sample

	// WriteError, if set, is returned by WriteSample.
	WriteError error

	// CloseError, if set, is returned by Close.
	CloseError error

	// CloseCalls counts Close invocations.
	CloseCalls int
}

// WriteSample records the sample.
func (f *FakeSink) WriteSample(s telemetry.Sample) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Samples = append(f.Samples, s)
	return nil
}

// Close records the call.
func (f *FakeSink) Close() error {
	f.CloseCalls++
	return f.CloseError
}

// FakeOpener returns a SinkOpener that hands out sink and records each open.
// If openErr is non-nil the opener fails instead.
func FakeOpener(sink Sink, openErr error) (SinkOpener, *int) {
	opens := new(int)
	return func(start time.Time) (Sink, error) {
		*opens++
		if openErr != nil {
			return nil, openErr
		}
		return sink, nil
	}, opens
}
