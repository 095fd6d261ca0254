package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeQueue(); err != nil {
		return err
	}
	c.normalizeCalendar()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("CADENCE_CONTENT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ContentDir = value
	}
	if strings.TrimSpace(c.Paths.ContentDir) == "" {
		c.Paths.ContentDir = defaultContentDir
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	var err error
	if c.Paths.ContentDir, err = expandPath(c.Paths.ContentDir); err != nil {
		return fmt.Errorf("paths.content_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.ProfilesFile, err = expandPath(strings.TrimSpace(c.Paths.ProfilesFile)); err != nil {
		return fmt.Errorf("paths.profiles_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeQueue() error {
	c.Queue.Backend = strings.ToLower(strings.TrimSpace(c.Queue.Backend))
	if c.Queue.Backend == "" {
		c.Queue.Backend = defaultQueueBackend
	}
	file := strings.TrimSpace(c.Queue.File)
	if file == "" {
		name := defaultQueueFileName
		if c.Queue.Backend == BackendSQLite {
			name = defaultQueueDBName
		}
		file = filepath.Join(c.Paths.StateDir, name)
	}
	var err error
	if c.Queue.File, err = expandPath(file); err != nil {
		return fmt.Errorf("queue.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeCalendar() {
	if value, ok := os.LookupEnv("CADENCE_TIMEZONE"); ok && strings.TrimSpace(value) != "" {
		c.Calendar.Timezone = value
	}
	c.Calendar.Timezone = strings.TrimSpace(c.Calendar.Timezone)
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = defaultTimezone
	}
	c.Calendar.DefaultFilter = strings.ToLower(strings.TrimSpace(c.Calendar.DefaultFilter))
	if c.Calendar.DefaultFilter == "" {
		c.Calendar.DefaultFilter = defaultFilter
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
