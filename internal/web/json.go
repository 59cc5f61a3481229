package web

import (
	"encoding/json"
	"time"

	"github.com/magden/dashd/internal/status"
	"github.com/magden/dashd/internal/telemetry"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Connection    string             `json:"connection"`
	Screen        int                `json:"screen"`
	Recording     RecordingJSON      `json:"recording"`
	Channels      map[string]float64 `json:"channels,omitempty"`
	SampleTime    string             `json:"sample_time,omitempty"`
	Ticks         int64              `json:"ticks"`
	Reconnects    int                `json:"reconnects"`
	LastError     string             `json:"last_error,omitempty"`
	UptimeSeconds int64              `json:"uptime_seconds"`
	StartTime     string             `json:"start_time"`
	Timestamp     string             `json:"timestamp"`
	Config        ConfigJSON         `json:"config"`
}

// RecordingJSON reports the recording session state.
type RecordingJSON struct {
	Active    bool   `json:"active"`
	StartedAt string `json:"started_at,omitempty"`
	EndsAt    string `json:"ends_at,omitempty"`
	Written   int    `json:"written"`
	Buffered  int    `json:"buffered"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickHz          float64 `json:"tick_hz"`
	CheckIntervalMs int64   `json:"check_interval_ms"`
	BufferCapacity  int     `json:"buffer_capacity"`
	SessionSec      int64   `json:"session_sec"`
	Provider        string  `json:"provider"`
	Broker          string  `json:"broker,omitempty"`
	HTTPAddr        string  `json:"http_addr"`
}

func formatJSON(snap status.Snapshot) []byte {
	inner := StatusInner{
		Connection: snap.Connection.String(),
		Screen:     snap.Screen,
		Recording: RecordingJSON{
			Active:   snap.Recording.Active,
			Written:  snap.Recording.Written,
			Buffered: snap.Recording.Buffered,
		},
		Ticks:         snap.Ticks,
		Reconnects:    snap.Reconnects,
		LastError:     snap.LastError,
		UptimeSeconds: int64(snap.Uptime().Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Config: ConfigJSON{
			TickHz:          snap.Config.TickHz,
			CheckIntervalMs: snap.Config.CheckIntervalMs,
			BufferCapacity:  snap.Config.BufferCapacity,
			SessionSec:      snap.Config.SessionSec,
			Provider:        snap.Config.Provider,
			Broker:          snap.Config.Broker,
			HTTPAddr:        snap.Config.HTTPAddr,
		},
	}

	if snap.Recording.Active {
		inner.Recording.StartedAt = snap.Recording.StartedAt.UTC().Format(time.RFC3339)
		inner.Recording.EndsAt = snap.Recording.EndsAt.UTC().Format(time.RFC3339)
	}

	if snap.HaveSample {
		inner.SampleTime = snap.Sample.Time.UTC().Format(time.RFC3339)
		inner.Channels = make(map[string]float64, len(telemetry.Channels))
		for _, ch := range telemetry.Channels {
			inner.Channels[ch.String()] = snap.Sample.Value(ch)
		}
	}

	data, err := json.Marshal(StatusJSON{Status: inner})
	if err != nil {
		// Snapshot contains only plain values; marshal cannot fail.
		return []byte(`{"status":{}}`)
	}
	return data
}
