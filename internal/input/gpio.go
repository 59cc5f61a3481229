//go:build linux

package input

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/magden/dashd/internal/dash"
)

const debouncePeriod = 20 * time.Millisecond

// Buttons reads dashboard buttons from actual hardware using the Linux GPIO
// character device. Presses arrive on the gpiocdev event goroutine and are
// handed to the loop through a non-blocking channel send.
type Buttons struct {
	chip    *gpiocdev.Chip
	screen  *gpiocdev.Line
	record  *gpiocdev.Line
	reconn  *gpiocdev.Line
	cmds    chan dash.Command

	mu      sync.Mutex
	current dash.ScreenID
}

// NewButtons requests the three button lines on gpiochip0. Buttons are wired
// active-low with pull-ups; the kernel debounces the lines.
func NewButtons(pins Pins) (*Buttons, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	b := &Buttons{
		chip:    chip,
		cmds:    make(chan dash.Command, 8),
		current: dash.ScreenGauges,
	}

	b.screen, err = b.requestButton(pins.Screen, b.onScreenPress)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request screen pin %d: %w", pins.Screen, err)
	}
	b.record, err = b.requestButton(pins.Record, func() {
		b.push(dash.Command{Kind: dash.CmdStartRecording})
	})
	if err != nil {
		b.screen.Close()
		chip.Close()
		return nil, fmt.Errorf("request record pin %d: %w", pins.Record, err)
	}
	b.reconn, err = b.requestButton(pins.Reconnect, func() {
		b.push(dash.Command{Kind: dash.CmdRequestReconnect})
	})
	if err != nil {
		b.record.Close()
		b.screen.Close()
		chip.Close()
		return nil, fmt.Errorf("request reconnect pin %d: %w", pins.Reconnect, err)
	}

	return b, nil
}

func (b *Buttons) requestButton(pin int, press func()) (*gpiocdev.Line, error) {
	return b.chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithDebounce(debouncePeriod),
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { press() }))
}

// onScreenPress cycles through the screens in order.
func (b *Buttons) onScreenPress() {
	b.mu.Lock()
	b.current = b.current.Next()
	next := b.current
	b.mu.Unlock()
	b.push(dash.SelectScreen(next))
}

// push hands a command to the loop without ever blocking the event
// goroutine; if the loop is behind, the press is dropped.
func (b *Buttons) push(cmd dash.Command) {
	select {
	case b.cmds <- cmd:
	default:
	}
}

// Commands returns the command channel.
func (b *Buttons) Commands() <-chan dash.Command {
	return b.cmds
}

// Close releases GPIO resources.
func (b *Buttons) Close() error {
	var errs []error
	for _, line := range []*gpiocdev.Line{b.screen, b.record, b.reconn} {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
