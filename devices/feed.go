package devices

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// FeedTopic is where weather stations publish telemetry.
const FeedTopic = "stations/+/telemetry"

// Telemetry is the message stations publish on FeedTopic.
type Telemetry struct {
	StationID   string    `json:"station_id"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature *float64  `json:"temperature_c,omitempty"`
	Humidity    *float64  `json:"humidity_pct,omitempty"`
}

// Feed takes the reading from temperatures published over MQTT. Messages
// arrive whenever a station sends them; the latest one is applied on each
// Update so the dial keeps its regular cadence.
type Feed struct {
	broker     string
	station    string
	fahrenheit bool
	reading    *Reading
	client     mqtt.Client

	mu        sync.Mutex
	pending   *float64
	last      time.Time
	connected bool
	lostErr   error
}

// NewFeed prepares a subscription to broker (e.g. tcp://localhost:1883).
// If station is set, telemetry from other stations is dropped.
func NewFeed(broker, station string, fahrenheit bool, r *Reading) *Feed {
	f := &Feed{
		broker:     broker,
		station:    station,
		fahrenheit: fahrenheit,
		reading:    r,
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(fmt.Sprintf("dialtop-%d", time.Now().UnixNano()))
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		f.onConnect()
		// subscribe on every connect so a reconnect restores the subscription
		token := c.Subscribe(FeedTopic, 0, func(_ mqtt.Client, m mqtt.Message) {
			if err := f.handle(m.Topic(), m.Payload()); err != nil {
				slog.Debug("mqtt message dropped", "topic", m.Topic(), "error", err)
			}
		})
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			slog.Error("mqtt subscribe", "topic", FeedTopic, "error", token.Error())
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		f.onLost(err)
	})
	f.client = mqtt.NewClient(opts)
	return f
}

// Connect waits for the first connection, giving up when ctx is done.
func (f *Feed) Connect(ctx context.Context) error {
	token := f.client.Connect()
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect %s: %w", f.broker, err)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (f *Feed) Close() {
	f.client.Disconnect(250)
}

func (f *Feed) onConnect() {
	slog.Info("mqtt connected", "broker", f.broker)
	f.mu.Lock()
	f.connected, f.lostErr = true, nil
	f.mu.Unlock()
}

func (f *Feed) onLost(err error) {
	slog.Warn("mqtt connection lost", "broker", f.broker, "error", err)
	f.mu.Lock()
	f.connected, f.lostErr = false, err
	f.mu.Unlock()
}

// Connected reports the broker connection state and, while disconnected,
// why the connection was lost. paho reconnects on its own, so a lost
// connection is not an Update error; it would unmount the feed for good.
func (f *Feed) Connected() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected, f.lostErr
}

// handle accepts either a Telemetry document or a bare number.
func (f *Feed) handle(topic string, payload []byte) error {
	if f.station != "" && stationFromTopic(topic) != f.station {
		return fmt.Errorf("station filtered")
	}
	var v float64
	body := strings.TrimSpace(string(payload))
	if strings.HasPrefix(body, "{") {
		var t Telemetry
		if err := json.Unmarshal([]byte(body), &t); err != nil {
			return fmt.Errorf("decoding telemetry: %w", err)
		}
		if t.Temperature == nil {
			return fmt.Errorf("telemetry has no temperature")
		}
		v = *t.Temperature
	} else {
		n, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return fmt.Errorf("payload is not a temperature: %w", err)
		}
		v = n
	}
	if f.fahrenheit {
		v = CelsiusToFahrenheit(v)
	}
	f.mu.Lock()
	f.pending = &v
	f.last = time.Now()
	f.mu.Unlock()
	return nil
}

func stationFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}

// Update applies the most recent temperature, if a new one arrived. While
// the broker is unreachable the reading holds its last value.
func (f *Feed) Update() error {
	f.mu.Lock()
	p := f.pending
	f.pending = nil
	f.mu.Unlock()
	if p != nil {
		f.reading.Set(*p)
	}
	return nil
}

// LastMessage is when the latest usable message arrived.
func (f *Feed) LastMessage() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *Feed) EnableMetrics(s *metrics.Set) {
	enableReadingMetrics(s, "feed", f.reading)
	s.NewGauge(makeName("dial", "feed", "connected"), func() float64 {
		if ok, _ := f.Connected(); ok {
			return 1
		}
		return 0
	})
}
