package config

import "time"

// WatcherConfig is the root configuration for a feedwatch instance.
type WatcherConfig struct {
	Instance  InstanceConfig   `yaml:"instance"`
	Dashboard DashboardConfig  `yaml:"dashboard"`
	Endpoints []EndpointConfig `yaml:"endpoints"`
	Database  DatabaseConfig   `yaml:"database"`
	History   HistoryConfig    `yaml:"history"`
	Poller    PollerConfig     `yaml:"poller"`
	Health    HealthConfig     `yaml:"health"`
}

// InstanceConfig identifies this watcher.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// DashboardConfig holds the dashboard origin and credentials. The base URL
// determines the WebSocket scheme: https yields wss, http yields ws.
type DashboardConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// EndpointConfig describes one live channel. The reconnect delay is fixed
// per endpoint; the original call sites disagree on the value (3s vs 5s),
// so it is configuration rather than a constant.
type EndpointConfig struct {
	Name           string        `yaml:"name"`
	Path           string        `yaml:"path"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	PingTimeout    time.Duration `yaml:"ping_timeout"`
	BufferSize     int           `yaml:"buffer_size"`
}

// DatabaseConfig holds the event history database.
type DatabaseConfig struct {
	History DBConfig `yaml:"history"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// HistoryConfig holds event history writer settings.
type HistoryConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// PollerConfig holds REST status poller settings.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
