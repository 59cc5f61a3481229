package input

import "github.com/magden/dashd/internal/dash"

// FakeSource is a test double that delivers scripted commands.
type FakeSource struct {
	cmds chan dash.Command

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSource creates a FakeSource with room for the scripted commands.
func NewFakeSource() *FakeSource {
	return &FakeSource{cmds: make(chan dash.Command, 64)}
}

// Push queues a command for delivery.
func (f *FakeSource) Push(cmd dash.Command) {
	f.cmds <- cmd
}

// Commands returns the command channel.
func (f *FakeSource) Commands() <-chan dash.Command {
	return f.cmds
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.Closed = true
	return nil
}
