package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout      = 30 * time.Second
	DefaultReconnectDelay  = 3 * time.Second
	DefaultPingTimeout     = 60 * time.Second
	DefaultChannelBuffer   = 1000
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultBatchSize       = 500
	DefaultFlushInterval   = 1 * time.Second
	DefaultHistoryBuffer   = 10000
	DefaultPollInterval    = 30 * time.Second
	DefaultPollConcurrency = 4
	DefaultPollTimeout     = 10 * time.Second
	DefaultHealthPort      = 8080
	DefaultHealthPath      = "/health"
)

func (c *WatcherConfig) applyDefaults() {
	if c.Dashboard.Timeout == 0 {
		c.Dashboard.Timeout = DefaultAPITimeout
	}

	for i := range c.Endpoints {
		ep := &c.Endpoints[i]
		if ep.ReconnectDelay == 0 {
			ep.ReconnectDelay = DefaultReconnectDelay
		}
		if ep.PingTimeout == 0 {
			ep.PingTimeout = DefaultPingTimeout
		}
		if ep.BufferSize == 0 {
			ep.BufferSize = DefaultChannelBuffer
		}
	}

	applyDBDefaults(&c.Database.History)

	if c.History.BatchSize == 0 {
		c.History.BatchSize = DefaultBatchSize
	}
	if c.History.FlushInterval == 0 {
		c.History.FlushInterval = DefaultFlushInterval
	}
	if c.History.BufferSize == 0 {
		c.History.BufferSize = DefaultHistoryBuffer
	}

	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
	if c.Health.Path == "" {
		c.Health.Path = DefaultHealthPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
