package dash

import (
	"github.com/magden/dashd/internal/provider"
	"github.com/magden/dashd/internal/record"
	"github.com/magden/dashd/internal/telemetry"
)

// Renderer draws one frame. Implementations live outside the core; the loop
// only hands values over and never hears back except through the input
// commands.
type Renderer interface {
	Render(screen ScreenID, s telemetry.Sample, conn provider.State, rec record.Status)
}

// NopRenderer discards frames, for headless operation.
type NopRenderer struct{}

// Render does nothing.
func (NopRenderer) Render(ScreenID, telemetry.Sample, provider.State, record.Status) {}
