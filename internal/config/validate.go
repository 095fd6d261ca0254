package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateQueue(); err != nil {
		return err
	}
	if err := c.validateCalendar(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.ContentDir == "" {
		return errors.New("paths.content_dir must be set")
	}
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateQueue() error {
	switch c.Queue.Backend {
	case BackendYAML, BackendSQLite:
	default:
		return fmt.Errorf("queue.backend: unsupported value %q (expected %q or %q)", c.Queue.Backend, BackendYAML, BackendSQLite)
	}
	if c.Queue.File == "" {
		return errors.New("queue.file must be set")
	}
	return nil
}

func (c *Config) validateCalendar() error {
	if _, err := loadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}
	switch c.Calendar.DefaultFilter {
	case "all", "upcoming", "released":
	default:
		return fmt.Errorf("calendar.default_filter: unsupported value %q", c.Calendar.DefaultFilter)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
