//go:build !linux

package input

import (
	"errors"

	"github.com/magden/dashd/internal/dash"
)

// Buttons is not available on non-Linux platforms.
type Buttons struct{}

// NewButtons returns an error on non-Linux platforms.
func NewButtons(Pins) (*Buttons, error) {
	return nil, errors.New("input: gpio buttons not supported on this platform (requires Linux)")
}

// Commands is not implemented on non-Linux platforms.
func (b *Buttons) Commands() <-chan dash.Command {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (b *Buttons) Close() error {
	return nil
}
