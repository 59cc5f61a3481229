package provider

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/magden/dashd/internal/telemetry"
)

const (
	connectTimeout   = 5 * time.Second
	subscribeTimeout = 5 * time.Second
)

// observation is one cached channel value from the broker.
type observation struct {
	value float64
	seen  time.Time
}

// Live reads telemetry published by the vehicle/simulator interface over
// MQTT. The interface publishes one raw value per channel to
// "<prefix>/<channel>"; Live caches the latest value per channel so a Read
// is a non-blocking lookup on the tick timeline, never a broker round trip.
// Values not refreshed within the staleness window read as absent.
type Live struct {
	client paho.Client
	prefix string
	stale  time.Duration
	clock  func() time.Time

	mu     sync.Mutex
	latest [telemetry.NumChannels]observation
}

// NewLive creates a live provider for the given broker. It does not connect;
// an unreachable broker degrades to a provider that never reports connected
// until a reconnect succeeds. clock may be nil for time.Now.
func NewLive(broker, topicPrefix string, staleAfter time.Duration, clock func() time.Time) *Live {
	if clock == nil {
		clock = time.Now
	}
	l := &Live{
		prefix: strings.TrimSuffix(topicPrefix, "/"),
		stale:  staleAfter,
		clock:  clock,
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("dashd").
		SetAutoReconnect(true).
		SetOnConnectHandler(l.onConnect)

	l.client = paho.NewClient(opts)
	return l
}

// Read returns the latest cached value for ch, or absent if the broker has
// not delivered one within the staleness window.
func (l *Live) Read(ch telemetry.Channel) telemetry.Reading {
	if !ch.Known() {
		return telemetry.Absent(ch)
	}
	l.mu.Lock()
	obs := l.latest[ch]
	l.mu.Unlock()

	if obs.seen.IsZero() {
		return telemetry.Absent(ch)
	}
	if l.stale > 0 && l.clock().Sub(obs.seen) > l.stale {
		return telemetry.Absent(ch)
	}
	return telemetry.Observed(ch, obs.value)
}

// Connected reports whether the broker connection is up.
func (l *Live) Connected() bool {
	return l.client.IsConnected()
}

// Reconnect connects to the broker if not already connected. The attempt is
// time-boxed; a broker that never answers surfaces as an error, not a hang.
func (l *Live) Reconnect() error {
	if l.client.IsConnected() {
		return nil
	}
	token := l.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("connect timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (l *Live) Close() error {
	l.client.Disconnect(1000) // milliseconds
	return nil
}

// onConnect (re)subscribes to the channel topic tree. Runs on paho's
// goroutine after every successful connect.
func (l *Live) onConnect(c paho.Client) {
	topic := l.prefix + "/#"
	token := c.Subscribe(topic, 0, l.onMessage)
	if !token.WaitTimeout(subscribeTimeout) {
		log.Printf("provider: subscribe %s timeout", topic)
		return
	}
	if err := token.Error(); err != nil {
		log.Printf("provider: subscribe %s: %v", topic, err)
	}
}

// onMessage caches one channel value. Unknown topics and non-numeric
// payloads are ignored; the vehicle interface publishes other metadata on
// the same tree.
func (l *Live) onMessage(_ paho.Client, msg paho.Message) {
	name := strings.TrimPrefix(msg.Topic(), l.prefix+"/")
	ch, ok := telemetry.ChannelByName(name)
	if !ok {
		return
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(msg.Payload())), 64)
	if err != nil {
		return
	}
	now := l.clock()
	l.mu.Lock()
	l.latest[ch] = observation{value: v, seen: now}
	l.mu.Unlock()
}
