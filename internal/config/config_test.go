package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeConfig(t, `server: {}
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.Stream.Interval != DefaultStreamInterval {
		t.Errorf("stream.interval: got %v, want %v", cfg.Server.Stream.Interval, DefaultStreamInterval)
	}
	if cfg.MQTT.Topic != DefaultMQTTTopic {
		t.Errorf("mqtt.topic: got %q, want %q", cfg.MQTT.Topic, DefaultMQTTTopic)
	}
	if cfg.MQTT.BrokerURL != "" {
		t.Errorf("mqtt.broker_url: got %q, want disabled by default", cfg.MQTT.BrokerURL)
	}
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 9090
  cors_origins: ["http://localhost:5173"]
  auth:
    mode: apikey
    key_env: MY_KEY
    header: x-hydro-key
  stream:
    interval: 2s
mqtt:
  broker_url: tcp://broker:1883
  client_id: field-gateway
  topic: greenhouse/+/readings
  qos: 1
alerts:
  rules:
    - name: unit-critical
      condition: health == critical
      severity: critical
      cooldown: 5m
  webhooks:
    - type: slack
      url_env: SLACK_URL
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("http_port: got %d, want 9090", cfg.Server.HTTPPort)
	}
	if cfg.Server.Auth.EffectiveHeader() != "x-hydro-key" {
		t.Errorf("header: got %q, want x-hydro-key", cfg.Server.Auth.EffectiveHeader())
	}
	if cfg.Server.Stream.Interval != 2*time.Second {
		t.Errorf("stream.interval: got %v, want 2s", cfg.Server.Stream.Interval)
	}
	if cfg.MQTT.BrokerURL != "tcp://broker:1883" || cfg.MQTT.QoS != 1 {
		t.Errorf("mqtt: got %+v", cfg.MQTT)
	}
	if len(cfg.Alerts.Rules) != 1 {
		t.Fatalf("rules: got %d, want 1", len(cfg.Alerts.Rules))
	}
	if cfg.Alerts.Rules[0].Cooldown != 5*time.Minute {
		t.Errorf("cooldown: got %v, want 5m", cfg.Alerts.Rules[0].Cooldown)
	}
}

func TestLoad_DefaultHeader(t *testing.T) {
	p := writeConfig(t, `server:
  auth:
    mode: apikey
    key_env: K
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h := cfg.Server.Auth.EffectiveHeader(); h != "x-api-key" {
		t.Errorf("EffectiveHeader: got %q, want x-api-key", h)
	}
}

func TestLoad_KeyEnvResolution(t *testing.T) {
	t.Setenv("TEST_HYDRO_KEY", "supersecret")
	p := writeConfig(t, `server:
  auth:
    mode: apikey
    key_env: TEST_HYDRO_KEY
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if k := cfg.Server.Auth.Key(); k != "supersecret" {
		t.Errorf("Key(): got %q, want supersecret", k)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name, yaml string
	}{
		{"unknown auth mode", "server:\n  auth:\n    mode: oauth2\n"},
		{"port out of range", "server:\n  http_port: 70000\n"},
		{"bad qos", "mqtt:\n  qos: 3\n"},
		{"rule without name", "alerts:\n  rules:\n    - condition: health == critical\n"},
		{"rule without condition", "alerts:\n  rules:\n    - name: x\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := writeConfig(t, c.yaml)
			if _, err := Load(p); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
