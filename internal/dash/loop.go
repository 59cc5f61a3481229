package dash

import (
	"log"
	"os"
	"time"

	"github.com/magden/dashd/internal/provider"
	"github.com/magden/dashd/internal/record"
	"github.com/magden/dashd/internal/status"
)

// Loop is the fixed-cadence top-level driver. Each tick it applies pending
// input commands, aggregates one sample, feeds the recorder, and hands the
// sample to the renderer. Nothing in the loop terminates the process; only a
// quit command or an external signal ends Run.
type Loop struct {
	sup      *provider.Supervisor
	agg      *Aggregator
	rec      *record.Recorder
	renderer Renderer
	tracker  *status.Tracker
	now      func() time.Time

	screen ScreenID
}

// NewLoop wires the per-tick pipeline. tracker may be nil; now may be nil
// for time.Now.
func NewLoop(sup *provider.Supervisor, agg *Aggregator, rec *record.Recorder, renderer Renderer, tracker *status.Tracker, now func() time.Time) *Loop {
	if now == nil {
		now = time.Now
	}
	return &Loop{
		sup:      sup,
		agg:      agg,
		rec:      rec,
		renderer: renderer,
		tracker:  tracker,
		now:      now,
		screen:   ScreenGauges,
	}
}

// Run drives the loop until a quit command or a signal arrives. The ticker
// channel sets the frame cadence; a slow tick is absorbed, never compensated
// by speeding up later ticks. The recorder is shut down (sink flushed) on
// every exit path.
func (l *Loop) Run(tick <-chan time.Time, commands <-chan Command, sig <-chan os.Signal) error {
	defer func() {
		if err := l.rec.Shutdown(); err != nil {
			log.Printf("recorder shutdown: %v", err)
		}
	}()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			return nil

		case cmd := <-commands:
			if l.apply(cmd) {
				return nil
			}

		case t := <-tick:
			// Apply everything already queued before sampling, so a
			// reconnect or session start takes effect this tick.
			if l.drainCommands(commands) {
				return nil
			}
			l.step(t)
		}
	}
}

// Screen returns the currently selected screen.
func (l *Loop) Screen() ScreenID { return l.screen }

func (l *Loop) drainCommands(commands <-chan Command) (quit bool) {
	for {
		select {
		case cmd := <-commands:
			if l.apply(cmd) {
				return true
			}
		default:
			return false
		}
	}
}

// apply executes one command. Unknown kinds and unknown screens are ignored.
func (l *Loop) apply(cmd Command) (quit bool) {
	switch cmd.Kind {
	case CmdSelectScreen:
		if cmd.Screen.Known() {
			l.screen = cmd.Screen
		}
	case CmdRequestReconnect:
		log.Printf("manual reconnect requested")
		l.sup.Reconnect()
	case CmdStartRecording:
		if err := l.rec.Start(l.now()); err != nil {
			log.Printf("start recording: %v", err)
			l.setLastError(err.Error())
		}
	case CmdStopRecording:
		if err := l.rec.Stop(); err != nil {
			log.Printf("stop recording: %v", err)
			l.setLastError(err.Error())
		}
	case CmdClearDiagnostics:
		if err := l.sup.ClearDiagnosticCodes(); err != nil {
			log.Printf("clear diagnostics: %v", err)
		}
	case CmdQuit:
		log.Printf("quit requested")
		return true
	}
	return false
}

func (l *Loop) step(t time.Time) {
	s := l.agg.Sample(t)

	if err := l.rec.Ingest(s); err != nil {
		// Recording failures must reach the user; they never stop the loop.
		log.Printf("recording: %v", err)
		l.setLastError(err.Error())
	}
	if err := l.rec.Tick(t); err != nil {
		log.Printf("recording: %v", err)
		l.setLastError(err.Error())
	}

	l.renderer.Render(l.screen, s, l.sup.State(), l.rec.Status())

	if l.tracker != nil {
		l.tracker.Update(s, l.sup.State(), l.rec.Status(), int(l.screen), l.sup.Reconnects())
	}
}

func (l *Loop) setLastError(msg string) {
	if l.tracker != nil {
		l.tracker.SetLastError(msg)
	}
}
