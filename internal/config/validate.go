package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *WatcherConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Dashboard.BaseURL == "" {
		return errors.New("dashboard.base_url is required")
	}

	if len(c.Endpoints) == 0 {
		return errors.New("at least one endpoint is required")
	}

	seen := make(map[string]struct{}, len(c.Endpoints))
	for i, ep := range c.Endpoints {
		if ep.Name == "" {
			return fmt.Errorf("endpoints[%d].name is required", i)
		}
		if _, dup := seen[ep.Name]; dup {
			return fmt.Errorf("endpoints[%d].name %q is duplicated", i, ep.Name)
		}
		seen[ep.Name] = struct{}{}

		if ep.Path == "" {
			return fmt.Errorf("endpoint %q: path is required", ep.Name)
		}
		if !strings.HasPrefix(ep.Path, "/") {
			return fmt.Errorf("endpoint %q: path must start with /", ep.Name)
		}
		if ep.ReconnectDelay < 0 {
			return fmt.Errorf("endpoint %q: reconnect_delay must be >= 0", ep.Name)
		}
	}

	if c.History.Enabled {
		if err := c.Database.History.validate("database.history"); err != nil {
			return err
		}
		if c.History.BatchSize < 1 {
			return errors.New("history.batch_size must be >= 1")
		}
		if c.History.BufferSize < 1 {
			return errors.New("history.buffer_size must be >= 1")
		}
	}

	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
