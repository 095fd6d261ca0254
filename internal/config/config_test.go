package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"cadence/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantContent := filepath.Join(tempHome, "content", "episodes")
	if cfg.Paths.ContentDir != wantContent {
		t.Fatalf("unexpected content dir: got %q want %q", cfg.Paths.ContentDir, wantContent)
	}
	wantQueue := filepath.Join(tempHome, ".local", "share", "cadence", "release-queue.yaml")
	if cfg.Queue.File != wantQueue {
		t.Fatalf("unexpected queue file: got %q want %q", cfg.Queue.File, wantQueue)
	}
	if cfg.Queue.Backend != config.BackendYAML {
		t.Fatalf("expected yaml backend, got %q", cfg.Queue.Backend)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadSQLiteBackendUsesDatabaseFileName(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "cadence.toml")
	body := "[paths]\nstate_dir = \"" + filepath.Join(dir, "state") + "\"\n\n[queue]\nbackend = \"SQLite\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Queue.Backend != config.BackendSQLite {
		t.Fatalf("expected sqlite backend, got %q", cfg.Queue.Backend)
	}
	if want := filepath.Join(dir, "state", "release-queue.db"); cfg.Queue.File != want {
		t.Fatalf("queue file = %q, want %q", cfg.Queue.File, want)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	contentDir := filepath.Join(home, "elsewhere")
	t.Setenv("CADENCE_CONTENT_DIR", contentDir)
	t.Setenv("CADENCE_TIMEZONE", "America/Los_Angeles")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.ContentDir != contentDir {
		t.Fatalf("content dir = %q, want %q", cfg.Paths.ContentDir, contentDir)
	}
	if got := cfg.Location().String(); got != "America/Los_Angeles" {
		t.Fatalf("location = %q", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"backend", func(c *config.Config) { c.Queue.Backend = "postgres" }, "queue.backend"},
		{"timezone", func(c *config.Config) { c.Calendar.Timezone = "Mars/Olympus" }, "calendar.timezone"},
		{"filter", func(c *config.Config) { c.Calendar.DefaultFilter = "later" }, "calendar.default_filter"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"queue file", func(c *config.Config) { c.Queue.File = "" }, "queue.file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Queue.File = "/tmp/queue.yaml"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestSampleConfigDecodes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config should decode: %v", err)
	}
	if cfg.Queue.Backend != config.BackendYAML {
		t.Fatalf("sample backend = %q", cfg.Queue.Backend)
	}
}

func TestLocationDefaultsToLocal(t *testing.T) {
	cfg := config.Default()
	if cfg.Location() != time.Local {
		t.Fatalf("expected time.Local, got %s", cfg.Location())
	}
	cfg.Calendar.Timezone = "UTC"
	if cfg.Location().String() != "UTC" {
		t.Fatalf("expected UTC, got %s", cfg.Location())
	}
}
