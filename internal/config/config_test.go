package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/magden/dashd/internal/telemetry"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Provider != "synthetic" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "synthetic")
	}
	if cfg.TickHz != 30 {
		t.Errorf("TickHz = %v, want 30", cfg.TickHz)
	}
	if cfg.Record.SessionSec != 300 {
		t.Errorf("SessionSec = %d, want 300", cfg.Record.SessionSec)
	}
	if cfg.Record.BufferCapacity != 300 {
		t.Errorf("BufferCapacity = %d, want 300", cfg.Record.BufferCapacity)
	}
	if cfg.CheckIntervalMs != 1000 {
		t.Errorf("CheckIntervalMs = %d, want 1000", cfg.CheckIntervalMs)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.HTTP.Addr, ":8080")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashd.yaml")
	body := `provider: live
tick_hz: 4
mqtt:
  broker: tcp://broker.local:1883
  topic_prefix: car
record:
  dir: /var/log/dashd
  session_sec: 30
defaults:
  voltage: 12.6
  gear: 1
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Provider != "live" {
		t.Errorf("Provider = %q, want %q", cfg.Provider, "live")
	}
	if cfg.TickHz != 4 {
		t.Errorf("TickHz = %v, want 4", cfg.TickHz)
	}
	if cfg.MQTT.Broker != "tcp://broker.local:1883" {
		t.Errorf("Broker = %q, want %q", cfg.MQTT.Broker, "tcp://broker.local:1883")
	}
	if cfg.MQTT.TopicPrefix != "car" {
		t.Errorf("TopicPrefix = %q, want %q", cfg.MQTT.TopicPrefix, "car")
	}
	if cfg.Record.Dir != "/var/log/dashd" {
		t.Errorf("Record.Dir = %q, want %q", cfg.Record.Dir, "/var/log/dashd")
	}
	if cfg.Record.SessionSec != 30 {
		t.Errorf("SessionSec = %d, want 30", cfg.Record.SessionSec)
	}
	// Values absent from the file keep their defaults.
	if cfg.CheckIntervalMs != 1000 {
		t.Errorf("CheckIntervalMs = %d, want 1000", cfg.CheckIntervalMs)
	}

	d := cfg.DefaultValues()
	if d[telemetry.Voltage] != 12.6 {
		t.Errorf("defaults[voltage] = %v, want 12.6", d[telemetry.Voltage])
	}
	if d[telemetry.Gear] != 1 {
		t.Errorf("defaults[gear] = %v, want 1", d[telemetry.Gear])
	}
	if d[telemetry.RPM] != 0 {
		t.Errorf("defaults[rpm] = %v, want 0", d[telemetry.RPM])
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashd.yaml")
	if err := os.WriteFile(path, []byte("provider: live\ntick_hz: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DASHD_PROVIDER", "synthetic")
	t.Setenv("DASHD_TICK_HZ", "2.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "synthetic" {
		t.Errorf("Provider = %q, want env override %q", cfg.Provider, "synthetic")
	}
	if cfg.TickHz != 2.5 {
		t.Errorf("TickHz = %v, want env override 2.5", cfg.TickHz)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load succeeded for a missing file")
	}
}

func TestLoadBadEnvValue(t *testing.T) {
	t.Setenv("DASHD_TICK_HZ", "fast")
	_, err := Load("")
	if err == nil {
		t.Fatal("Load succeeded with a non-numeric DASHD_TICK_HZ")
	}
}

func TestValidateUnknownChannel(t *testing.T) {
	cfg := Default()
	cfg.Defaults = map[string]float64{"warp_factor": 9}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted an unknown channel name")
	}
	if !strings.Contains(err.Error(), "warp_factor") {
		t.Errorf("error = %q, want mention of the unknown name", err)
	}
}

func TestDisplayMaxOverrides(t *testing.T) {
	cfg := Default()
	cfg.DisplayMax = map[string]float64{"rpm": 8000}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	m := cfg.DisplayMaxValues()
	if m[telemetry.RPM] != 8000 {
		t.Errorf("display_max[rpm] = %v, want override 8000", m[telemetry.RPM])
	}
	if m[telemetry.Speed] != telemetry.Speed.DisplayMax() {
		t.Errorf("display_max[speed] = %v, want built-in %v", m[telemetry.Speed], telemetry.Speed.DisplayMax())
	}

	cfg.DisplayMax["rpm"] = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted a non-positive display max")
	}
}

func TestValidateBadProvider(t *testing.T) {
	cfg := Default()
	cfg.Provider = "psychic"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted an unknown provider")
	}
}

func TestValidateLiveNeedsBroker(t *testing.T) {
	cfg := Default()
	cfg.Provider = "live"
	cfg.MQTT.Broker = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted a live provider without a broker")
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := Default()
	cfg.TickHz = 4
	cfg.CheckIntervalMs = 2500
	cfg.Record.SessionSec = 90
	cfg.MQTT.StaleAfterMs = 750

	if got := cfg.TickPeriod(); got != 250*time.Millisecond {
		t.Errorf("TickPeriod = %v, want 250ms", got)
	}
	if got := cfg.CheckInterval(); got != 2500*time.Millisecond {
		t.Errorf("CheckInterval = %v, want 2.5s", got)
	}
	if got := cfg.SessionDuration(); got != 90*time.Second {
		t.Errorf("SessionDuration = %v, want 90s", got)
	}
	if got := cfg.StaleAfter(); got != 750*time.Millisecond {
		t.Errorf("StaleAfter = %v, want 750ms", got)
	}
}
