// Command dashd samples vehicle telemetry, drives the dashboard loop, and
// records session-bounded CSV logs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/magden/dashd/internal/config"
	"github.com/magden/dashd/internal/dash"
	"github.com/magden/dashd/internal/input"
	"github.com/magden/dashd/internal/provider"
	"github.com/magden/dashd/internal/record"
	"github.com/magden/dashd/internal/status"
	"github.com/magden/dashd/internal/telemetry"
	"github.com/magden/dashd/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	providerName := flag.String("provider", "", "telemetry provider: live or synthetic")
	broker := flag.String("broker", "", "MQTT broker address for the live provider")
	tickHz := flag.Float64("tick", 0, "dashboard tick rate in Hz")
	httpAddr := flag.String("http", "", `HTTP status address ("off" to disable)`)
	recordDir := flag.String("record-dir", "", "directory for session CSV files")
	logFile := flag.String("log-file", "", "rotated log file (empty for stderr)")
	printSample := flag.Bool("print-sample", false, "print one sample and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	applyFlags(&cfg, *providerName, *broker, *tickHz, *httpAddr, *recordDir, *logFile)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if cfg.Log.File != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		})
	}

	if err := run(cfg, *printSample); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyFlags overlays explicitly provided flags onto the loaded config.
// Flags win over both the config file and the environment.
func applyFlags(cfg *config.Config, providerName, broker string, tickHz float64, httpAddr, recordDir, logFile string) {
	if providerName != "" {
		cfg.Provider = providerName
	}
	if broker != "" {
		cfg.MQTT.Broker = broker
	}
	if tickHz > 0 {
		cfg.TickHz = tickHz
	}
	if httpAddr == "off" {
		cfg.HTTP.Addr = ""
	} else if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}
	if recordDir != "" {
		cfg.Record.Dir = recordDir
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
}

// newProvider builds the configured telemetry provider. The live provider
// does not connect here; the supervisor drives connection attempts.
func newProvider(cfg config.Config) provider.Provider {
	if cfg.Provider == "live" {
		return provider.NewLive(cfg.MQTT.Broker, cfg.MQTT.TopicPrefix, cfg.StaleAfter(), time.Now)
	}
	return provider.NewSynthetic(time.Now)
}

func run(cfg config.Config, printSample bool) error {
	prov := newProvider(cfg)
	defer prov.Close()

	sup := provider.NewSupervisor(prov, cfg.CheckInterval(), time.Now)
	start := time.Now()
	agg := dash.NewAggregator(sup, cfg.DefaultValues(), start)

	// Print sample mode
	if printSample {
		sup.Reconnect()
		s := agg.Sample(time.Now())
		for _, ch := range telemetry.Channels {
			fmt.Printf("%s: %v\n", ch, s.Value(ch))
		}
		return nil
	}

	rec := record.New(cfg.Record.BufferCapacity, cfg.SessionDuration(), record.CSVOpener(cfg.Record.Dir))

	tracker := status.NewTracker(start, status.Config{
		TickHz:          cfg.TickHz,
		CheckIntervalMs: cfg.CheckIntervalMs,
		BufferCapacity:  cfg.Record.BufferCapacity,
		SessionSec:      cfg.Record.SessionSec,
		Provider:        cfg.Provider,
		Broker:          cfg.MQTT.Broker,
		HTTPAddr:        cfg.HTTP.Addr,
	})

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	// Hardware buttons are optional; the daemon is useful without them.
	var commands <-chan dash.Command
	buttons, err := input.NewButtons(input.Pins{
		Screen:    cfg.Buttons.Screen,
		Record:    cfg.Buttons.Record,
		Reconnect: cfg.Buttons.Reconnect,
	})
	if err != nil {
		log.Printf("gpio buttons unavailable: %v", err)
	} else {
		defer buttons.Close()
		commands = buttons.Commands()
	}

	log.Printf("started: provider=%s tick=%vHz session=%v broker=%s",
		cfg.Provider, cfg.TickHz, cfg.SessionDuration(), cfg.MQTT.Broker)

	ticker := time.NewTicker(cfg.TickPeriod())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	loop := dash.NewLoop(sup, agg, rec, dash.NopRenderer{}, tracker, time.Now)
	return loop.Run(ticker.C, commands, sigCh)
}
