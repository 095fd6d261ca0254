package testsupport

import (
	"path/filepath"
	"testing"
	"time"

	"cadence/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ContentDir = filepath.Join(base, "content")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.ProfilesFile = filepath.Join(base, "profiles.yaml")
	cfgVal.Queue.Backend = config.BackendYAML
	cfgVal.Queue.File = filepath.Join(cfgVal.Paths.StateDir, "release-queue.yaml")
	cfgVal.Calendar.Timezone = "UTC"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSQLiteQueue switches the queue backend to SQLite.
func WithSQLiteQueue() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Queue.Backend = config.BackendSQLite
		b.cfg.Queue.File = filepath.Join(b.cfg.Paths.StateDir, "release-queue.db")
	}
}

// WithTimezone sets the calendar timezone on the test config.
func WithTimezone(name string) ConfigOption {
	return func(b *configBuilder) {
		if _, err := time.LoadLocation(name); err != nil {
			b.t.Fatalf("load location %q: %v", name, err)
		}
		b.cfg.Calendar.Timezone = name
	}
}

// WithProfiles writes a distribution profile table and points the config at it.
func WithProfiles(document string) ConfigOption {
	return func(b *configBuilder) {
		WriteFile(b.t, b.cfg.Paths.ProfilesFile, document)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
