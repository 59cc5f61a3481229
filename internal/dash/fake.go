package dash

import (
	"github.com/magden/dashd/internal/provider"
	"github.com/magden/dashd/internal/record"
	"github.com/magden/dashd/internal/telemetry"
)

// Frame is one recorded render call.
type Frame struct {
	Screen    ScreenID
	Sample    telemetry.Sample
	Conn      provider.State
	Recording record.Status
}

// FakeRenderer records every rendered frame for test assertions.
type FakeRenderer struct {
	Frames []Frame
}

// Render records the frame.
func (f *FakeRenderer) Render(screen ScreenID, s telemetry.Sample, conn provider.State, rec record.Status) {
	f.Frames = append(f.Frames, Frame{Screen: screen, Sample: s, Conn: conn, Recording: rec})
}
