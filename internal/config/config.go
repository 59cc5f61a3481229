// Package config loads daemon configuration from a YAML file with
// environment variable overrides. Precedence, lowest to highest: built-in
// defaults, config file, environment (including a .env file loaded at
// startup).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/magden/dashd/internal/telemetry"
)

// Config is the full daemon configuration.
type Config struct {
	Provider string `yaml:"provider"`

	// TickHz is the dashboard update rate in ticks per second.
	TickHz float64 `yaml:"tick_hz"`

	MQTT    MQTTConfig    `yaml:"mqtt"`
	Record  RecordConfig  `yaml:"record"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Buttons ButtonsConfig `yaml:"buttons"`

	// CheckIntervalMs throttles connection probes and reconnect attempts.
	CheckIntervalMs int64 `yaml:"check_interval_ms"`

	// Defaults overrides the built-in per-channel disconnect values,
	// keyed by channel name in display units.
	Defaults map[string]float64 `yaml:"defaults"`

	// DisplayMax overrides the built-in per-channel display maxima used
	// for gauge normalization, keyed by channel name in display units.
	DisplayMax map[string]float64 `yaml:"display_max"`
}

// MQTTConfig configures the live telemetry provider.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	TopicPrefix string `yaml:"topic_prefix"`
	// StaleAfterMs is how long a cached value stays fresh without a new
	// message before reads report it absent.
	StaleAfterMs int64 `yaml:"stale_after_ms"`
}

// RecordConfig configures the session recorder.
type RecordConfig struct {
	Dir            string `yaml:"dir"`
	SessionSec     int64  `yaml:"session_sec"`
	BufferCapacity int    `yaml:"buffer_capacity"`
}

// HTTPConfig configures the status server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures rotated file logging. An empty File logs to stderr.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// ButtonsConfig assigns GPIO pins to the hardware buttons.
type ButtonsConfig struct {
	Screen    int `yaml:"screen"`
	Record    int `yaml:"record"`
	Reconnect int `yaml:"reconnect"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider: "synthetic",
		TickHz:   30,
		MQTT: MQTTConfig{
			Broker:       "tcp://localhost:1883",
			TopicPrefix:  "telemetry",
			StaleAfterMs: 5000,
		},
		Record: RecordConfig{
			Dir:            ".",
			SessionSec:     300,
			BufferCapacity: 300,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Buttons: ButtonsConfig{
			Screen:    17,
			Record:    27,
			Reconnect: 22,
		},
		CheckIntervalMs: 1000,
	}
}

// Load builds the configuration: defaults, then the YAML file at path if
// path is non-empty, then environment overrides. A .env file in the working
// directory is loaded into the environment first if present.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	// Missing .env is the normal case.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DASHD_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("DASHD_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}
	if v := os.Getenv("DASHD_TOPIC_PREFIX"); v != "" {
		cfg.MQTT.TopicPrefix = v
	}
	if v := os.Getenv("DASHD_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("DASHD_RECORD_DIR"); v != "" {
		cfg.Record.Dir = v
	}
	if v := os.Getenv("DASHD_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("DASHD_TICK_HZ"); v != "" {
		hz, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DASHD_TICK_HZ: %w", err)
		}
		cfg.TickHz = hz
	}
	if v := os.Getenv("DASHD_SESSION_SEC"); v != "" {
		sec, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("DASHD_SESSION_SEC: %w", err)
		}
		cfg.Record.SessionSec = sec
	}
	return nil
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	if c.Provider != "live" && c.Provider != "synthetic" {
		return fmt.Errorf("provider must be live or synthetic, got %q", c.Provider)
	}
	if c.TickHz <= 0 {
		return fmt.Errorf("tick_hz must be positive, got %v", c.TickHz)
	}
	if c.Record.SessionSec <= 0 {
		return fmt.Errorf("record.session_sec must be positive, got %d", c.Record.SessionSec)
	}
	if c.Record.BufferCapacity <= 0 {
		return fmt.Errorf("record.buffer_capacity must be positive, got %d", c.Record.BufferCapacity)
	}
	if c.CheckIntervalMs <= 0 {
		return fmt.Errorf("check_interval_ms must be positive, got %d", c.CheckIntervalMs)
	}
	if c.Provider == "live" && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required for the live provider")
	}
	for name := range c.Defaults {
		if _, ok := telemetry.ChannelByName(name); !ok {
			return fmt.Errorf("defaults: unknown channel %q", name)
		}
	}
	for name, v := range c.DisplayMax {
		if _, ok := telemetry.ChannelByName(name); !ok {
			return fmt.Errorf("display_max: unknown channel %q", name)
		}
		if v <= 0 {
			return fmt.Errorf("display_max: %s must be positive, got %v", name, v)
		}
	}
	return nil
}

// TickPeriod is the interval between dashboard ticks.
func (c Config) TickPeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.TickHz)
}

// CheckInterval is the minimum spacing between connection probes.
func (c Config) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalMs) * time.Millisecond
}

// SessionDuration is the fixed recording session length.
func (c Config) SessionDuration() time.Duration {
	return time.Duration(c.Record.SessionSec) * time.Second
}

// StaleAfter is how long a cached live value stays fresh.
func (c Config) StaleAfter() time.Duration {
	return time.Duration(c.MQTT.StaleAfterMs) * time.Millisecond
}

// DefaultValues resolves the per-channel disconnect defaults: built-in
// values overlaid with any configured overrides. Validate catches unknown
// names, so overrides here resolve cleanly.
func (c Config) DefaultValues() [telemetry.NumChannels]float64 {
	var d [telemetry.NumChannels]float64
	for _, ch := range telemetry.Channels {
		d[ch] = ch.DefaultValue()
	}
	for name, v := range c.Defaults {
		if ch, ok := telemetry.ChannelByName(name); ok {
			d[ch] = v
		}
	}
	return d
}

// DisplayMaxValues resolves the per-channel gauge maxima: built-in values
// overlaid with any configured overrides.
func (c Config) DisplayMaxValues() [telemetry.NumChannels]float64 {
	var m [telemetry.NumChannels]float64
	for _, ch := range telemetry.Channels {
		m[ch] = ch.DisplayMax()
	}
	for name, v := range c.DisplayMax {
		if ch, ok := telemetry.ChannelByName(name); ok {
			m[ch] = v
		}
	}
	return m
}
