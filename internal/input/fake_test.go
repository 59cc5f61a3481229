package input

import (
	"testing"

	"github.com/magden/dashd/internal/dash"
)

func TestFakeSourceDeliversInOrder(t *testing.T) {
	f := NewFakeSource()
	f.Push(dash.SelectScreen(dash.ScreenTelemetry))
	f.Push(dash.Command{Kind: dash.CmdStartRecording})

	var src Source = f

	first := <-src.Commands()
	if first.Kind != dash.CmdSelectScreen || first.Screen != dash.ScreenTelemetry {
		t.Errorf("first command: got %+v", first)
	}
	second := <-src.Commands()
	if second.Kind != dash.CmdStartRecording {
		t.Errorf("second command: got %+v", second)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed {
		t.Error("expected Closed=true")
	}
}

func TestScreenCycling(t *testing.T) {
	got := dash.ScreenGauges
	want := []dash.ScreenID{dash.ScreenTelemetry, dash.ScreenEngine, dash.ScreenGauges}
	for i, w := range want {
		got = got.Next()
		if got != w {
			t.Errorf("press %d: got screen %v, want %v", i+1, got, w)
		}
	}
}
