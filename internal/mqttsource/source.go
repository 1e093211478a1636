package mqttsource

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hydrosense/hydrosense/internal/classify"
	"github.com/hydrosense/hydrosense/internal/config"
	"github.com/hydrosense/hydrosense/internal/monitor"
)

const (
	connectRetryInterval = 2 * time.Second
	disconnectQuiesceMs  = 250
)

// payload is the incoming JSON structure from field units. It mirrors
// the body of POST /api/v1/sensor.
type payload struct {
	UnitID    string `json:"unitId"`
	Timestamp string `json:"timestamp"`
	Readings  *struct {
		PH   *float64 `json:"pH"`
		Temp *float64 `json:"temp"`
		EC   *float64 `json:"ec"`
	} `json:"readings"`
}

// Source subscribes to the readings topic and feeds the monitor service.
type Source struct {
	svc    *monitor.Service
	cfg    config.MQTTConfig
	client mqtt.Client
}

// New builds a source from cfg. It does not connect; call Start.
func New(svc *monitor.Service, cfg config.MQTTConfig) *Source {
	return &Source{svc: svc, cfg: cfg}
}

// Start connects to the broker and subscribes to the configured topic.
// Connection retry is handled by the paho client; Start blocks only for
// the initial connect and subscribe handshakes.
func (s *Source) Start() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.cfg.BrokerURL)
	opts.SetClientID(s.cfg.ClientID)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(connectRetryInterval)
	s.client = mqtt.NewClient(opts)

	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect %s: %w", s.cfg.BrokerURL, token.Error())
	}

	if token := s.client.Subscribe(s.cfg.Topic, byte(s.cfg.QoS), s.handle); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", s.cfg.Topic, token.Error())
	}

	slog.Info("mqtt source started", "broker", s.cfg.BrokerURL, "topic", s.cfg.Topic, "qos", s.cfg.QoS)
	return nil
}

// Close disconnects from the broker, letting in-flight work quiesce.
func (s *Source) Close() {
	if s.client != nil {
		s.client.Disconnect(disconnectQuiesceMs)
	}
}

func (s *Source) handle(_ mqtt.Client, msg mqtt.Message) {
	in, err := decode(msg.Topic(), msg.Payload())
	if err != nil {
		slog.Warn("mqtt: dropping malformed message", "topic", msg.Topic(), "error", err)
		return
	}

	classification, err := s.svc.Ingest(in)
	if err != nil {
		slog.Warn("mqtt: reading rejected", "topic", msg.Topic(), "unit", in.UnitID, "error", err)
		return
	}
	slog.Debug("mqtt: reading ingested", "unit", in.UnitID, "classification", classification)
}

// decode parses an MQTT message into a monitor input. The unit falls
// back to the second topic segment ("hydroponics/<unit>/readings") when
// the payload omits unitId.
func decode(topic string, raw []byte) (monitor.Input, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return monitor.Input{}, fmt.Errorf("parse json: %w", err)
	}

	unitID := strings.TrimSpace(p.UnitID)
	if unitID == "" {
		unitID = unitFromTopic(topic)
	}
	if unitID == "" {
		return monitor.Input{}, fmt.Errorf("no unit id in payload or topic")
	}

	if p.Timestamp == "" {
		return monitor.Input{}, fmt.Errorf("missing timestamp")
	}
	ts, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		return monitor.Input{}, fmt.Errorf("parse timestamp %q: %w", p.Timestamp, err)
	}

	if p.Readings == nil || p.Readings.PH == nil || p.Readings.Temp == nil || p.Readings.EC == nil {
		return monitor.Input{}, fmt.Errorf("incomplete readings block")
	}

	return monitor.Input{
		UnitID:    unitID,
		Timestamp: ts,
		Values: classify.Values{
			PH:          *p.Readings.PH,
			Temperature: *p.Readings.Temp,
			EC:          *p.Readings.EC,
		},
	}, nil
}

// unitFromTopic extracts the unit segment from "<prefix>/<unit>/readings".
func unitFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
