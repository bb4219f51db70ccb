package config

import (
	"fmt"
	"net/url"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535] (got %d)", c.Server.Port)
	}

	if err := c.Source.validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	if c.Database.Enabled() {
		if err := c.Database.validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be >= 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	return nil
}

func (s *SourceConfig) validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL (got %q)", s.BaseURL)
	}

	if s.StorageDir == "" {
		return fmt.Errorf("storage_dir is required")
	}

	if err := checkDatePattern(s.DatePattern); err != nil {
		return fmt.Errorf("date_pattern: %w", err)
	}

	if s.MaxAge <= 0 {
		return fmt.Errorf("max_age must be > 0 (got %v)", s.MaxAge)
	}
	if s.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must be >= 0 (got %v)", s.FetchTimeout)
	}
	if s.PurgeInterval < 0 {
		return fmt.Errorf("purge_interval must be >= 0 (got %v)", s.PurgeInterval)
	}
	return nil
}

// checkDatePattern rejects layouts that cannot carry a full calendar date,
// e.g. a pattern without the year.
func checkDatePattern(layout string) error {
	if layout == "" {
		return fmt.Errorf("must not be empty")
	}
	probe := time.Date(2023, time.December, 24, 0, 0, 0, 0, time.UTC)
	got, err := time.Parse(layout, probe.Format(layout))
	if err != nil {
		return fmt.Errorf("layout %q does not round-trip: %w", layout, err)
	}
	if !got.Equal(probe) {
		return fmt.Errorf("layout %q must contain day, month and year", layout)
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.MaxConns <= 0 {
		return fmt.Errorf("max_conns must be > 0 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns must be in [0, max_conns] (got %d)", d.MinConns)
	}
	if d.Retention <= 0 {
		return fmt.Errorf("retention must be > 0 (got %v)", d.Retention)
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error (got %q)", l.Level)
	}
	switch l.Format {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	return nil
}
