// Package input turns hardware button presses into dashboard commands, with
// hardware abstraction. The real implementation uses the Linux GPIO
// character device; the fake allows testing without hardware.
package input

import "github.com/magden/dashd/internal/dash"

// Source delivers input commands to the dashboard loop.
type Source interface {
	// Commands returns the channel the source delivers on. The source never
	// blocks on a slow consumer; presses that cannot be delivered are
	// dropped.
	Commands() <-chan dash.Command

	// Close releases input resources.
	Close() error
}

// Button pin definitions (BCM numbering).
const (
	DefaultPinScreen    = 17 // cycle active screen
	DefaultPinRecord    = 27 // start recording session
	DefaultPinReconnect = 22 // force provider reconnect
)

// Pins holds the BCM pin assignment for the three dashboard buttons.
type Pins struct {
	Screen    int
	Record    int
	Reconnect int
}

// DefaultPins returns the default button assignment.
func DefaultPins() Pins {
	return Pins{
		Screen:    DefaultPinScreen,
		Record:    DefaultPinRecord,
		Reconnect: DefaultPinReconnect,
	}
}
