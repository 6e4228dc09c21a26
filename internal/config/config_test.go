package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-feedwatch
dashboard:
  base_url: https://dashboard.example.com
  token: tok
endpoints:
  - name: chat
    path: /ws/rooms
    reconnect_delay: 5s
  - name: trading
    path: /ws/trading
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-feedwatch" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-feedwatch")
	}
	if cfg.Dashboard.BaseURL != "https://dashboard.example.com" {
		t.Errorf("Dashboard.BaseURL = %q, want %q", cfg.Dashboard.BaseURL, "https://dashboard.example.com")
	}
	if len(cfg.Endpoints) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(cfg.Endpoints))
	}
	if cfg.Endpoints[0].ReconnectDelay != 5*time.Second {
		t.Errorf("Endpoints[0].ReconnectDelay = %v, want 5s", cfg.Endpoints[0].ReconnectDelay)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DASH_TOKEN", "secret123")

	yaml := `
instance:
  id: test-feedwatch
dashboard:
  base_url: http://localhost:8000
  token: ${TEST_DASH_TOKEN}
endpoints:
  - name: events
    path: /ws
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Dashboard.Token != "secret123" {
		t.Errorf("Dashboard.Token = %q, want %q", cfg.Dashboard.Token, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: test-feedwatch
dashboard:
  base_url: http://localhost:8000
endpoints:
  - name: events
    path: /ws
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Dashboard.Timeout != DefaultAPITimeout {
		t.Errorf("Dashboard.Timeout = %v, want default %v", cfg.Dashboard.Timeout, DefaultAPITimeout)
	}
	ep := cfg.Endpoints[0]
	if ep.ReconnectDelay != DefaultReconnectDelay {
		t.Errorf("ReconnectDelay = %v, want default %v", ep.ReconnectDelay, DefaultReconnectDelay)
	}
	if ep.PingInterval != 0 {
		t.Errorf("PingInterval = %v, want 0 (heartbeat off)", ep.PingInterval)
	}
	if ep.BufferSize != DefaultChannelBuffer {
		t.Errorf("BufferSize = %d, want default %d", ep.BufferSize, DefaultChannelBuffer)
	}
	if cfg.Poller.Interval != DefaultPollInterval {
		t.Errorf("Poller.Interval = %v, want default %v", cfg.Poller.Interval, DefaultPollInterval)
	}
	if cfg.Health.Port != DefaultHealthPort {
		t.Errorf("Health.Port = %d, want default %d", cfg.Health.Port, DefaultHealthPort)
	}
	if cfg.History.BatchSize != DefaultBatchSize {
		t.Errorf("History.BatchSize = %d, want default %d", cfg.History.BatchSize, DefaultBatchSize)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *WatcherConfig {
		cfg := &WatcherConfig{
			Instance:  InstanceConfig{ID: "w1"},
			Dashboard: DashboardConfig{BaseURL: "https://dashboard.example.com"},
			Endpoints: []EndpointConfig{
				{Name: "chat", Path: "/ws/rooms"},
			},
		}
		cfg.applyDefaults()
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*WatcherConfig)
	}{
		{"missing instance id", func(c *WatcherConfig) { c.Instance.ID = "" }},
		{"missing base url", func(c *WatcherConfig) { c.Dashboard.BaseURL = "" }},
		{"no endpoints", func(c *WatcherConfig) { c.Endpoints = nil }},
		{"endpoint without name", func(c *WatcherConfig) { c.Endpoints[0].Name = "" }},
		{"endpoint without path", func(c *WatcherConfig) { c.Endpoints[0].Path = "" }},
		{"relative path", func(c *WatcherConfig) { c.Endpoints[0].Path = "ws/rooms" }},
		{"duplicate endpoint name", func(c *WatcherConfig) {
			c.Endpoints = append(c.Endpoints, EndpointConfig{Name: "chat", Path: "/ws"})
		}},
		{"negative reconnect delay", func(c *WatcherConfig) {
			c.Endpoints[0].ReconnectDelay = -time.Second
		}},
		{"history without db host", func(c *WatcherConfig) {
			c.History.Enabled = true
		}},
		{"bad health port", func(c *WatcherConfig) { c.Health.Port = 70000 }},
		{"zero poll concurrency", func(c *WatcherConfig) { c.Poller.Concurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateHistoryEnabled(t *testing.T) {
	cfg := &WatcherConfig{
		Instance:  InstanceConfig{ID: "w1"},
		Dashboard: DashboardConfig{BaseURL: "https://dashboard.example.com"},
		Endpoints: []EndpointConfig{{Name: "chat", Path: "/ws/rooms"}},
		History:   HistoryConfig{Enabled: true},
		Database: DatabaseConfig{
			History: DBConfig{
				Host:     "localhost",
				Name:     "livefeed",
				User:     "livefeed",
				Password: "pw",
			},
		},
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid history config rejected: %v", err)
	}

	cfg.Database.History.MinConns = 50
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for min_conns > max_conns")
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
