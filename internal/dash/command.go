package dash

// ScreenID selects which dashboard screen is active. Screen selection only
// affects rendering, never which channels are sampled or recorded.
type ScreenID int

const (
	// ScreenGauges is the main cluster: RPM, speed, temps, fuel, voltage.
	ScreenGauges ScreenID = 1
	// ScreenTelemetry shows gear, pedals, and pressures.
	ScreenTelemetry ScreenID = 2
	// ScreenEngine shows engine parameters and diagnostics.
	ScreenEngine ScreenID = 3

	numScreens = 3
)

// Known reports whether id names an existing screen.
func (id ScreenID) Known() bool {
	return id >= 1 && id <= numScreens
}

// Next returns the next screen in cycling order.
func (id ScreenID) Next() ScreenID {
	if !id.Known() {
		return ScreenGauges
	}
	return id%numScreens + 1
}

// CommandKind enumerates the discrete input events the loop consumes.
type CommandKind int

const (
	// CmdSelectScreen switches the active screen.
	CmdSelectScreen CommandKind = iota
	// CmdRequestReconnect forces an immediate provider reconnect attempt.
	CmdRequestReconnect
	// CmdStartRecording starts a recording session.
	CmdStartRecording
	// CmdStopRecording ends the active recording session early.
	CmdStopRecording
	// CmdClearDiagnostics clears stored trouble codes on the provider.
	CmdClearDiagnostics
	// CmdQuit ends the dashboard loop.
	CmdQuit
)

// Command is one discrete input event. Commands arriving within one tick are
// applied in arrival order; unknown commands are ignored.
type Command struct {
	Kind   CommandKind
	Screen ScreenID // for CmdSelectScreen
}

// SelectScreen builds a screen-selection command.
func SelectScreen(id ScreenID) Command {
	return Command{Kind: CmdSelectScreen, Screen: id}
}
