package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cadence/internal/config"
	"cadence/internal/logging"
	"cadence/internal/services"
)

func TestNewFromConfigWritesStateLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.StateDir, "cadence.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from test") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerFormatsSubject(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithGroupID(context.Background(), "spring-launch")
	ctx = services.WithItemID(ctx, "show/pilot")
	ctx = services.WithRequestID(ctx, "0f8fad5b-d9cb-469f-a165-70867728950e")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "release")).Info("member released",
		logging.String("status", "released"),
		logging.Error(services.Wrap(services.ErrNotFound, "status", "get", "show/ep-9", nil)),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, fragment := range []string{"INFO", "release · group spring-launch · show/pilot: member released (run 0f8fad5b)", "status=released", "[not_found]"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
	if strings.Contains(line, "\033[") {
		t.Fatalf("expected no color codes when writing to a file, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
}

func TestJSONLoggerFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	missing := services.Wrap(services.ErrNotFound, "status", "set status", "show/ep-9", nil)
	logging.WarnWithContext(logger, "member not released", "release_member_failed", logging.Error(missing))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected warn level, got %v", payload["level"])
	}
	for _, key := range []string{"ts", "msg", logging.FieldEventType, logging.FieldErrorHint, logging.FieldErrorKind} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("expected key %q in %v", key, payload)
		}
	}
	if payload[logging.FieldErrorKind] != "not_found" {
		t.Fatalf("error_kind = %v, want not_found", payload[logging.FieldErrorKind])
	}
	if payload[logging.FieldErrorHint] != "check the item or group id" {
		t.Fatalf("unexpected hint %v", payload[logging.FieldErrorHint])
	}
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %#v", payload["error"])
	}
	if errObj["kind"] != "not_found" || !strings.Contains(errObj["message"].(string), "show/ep-9") {
		t.Fatalf("unexpected error object %v", errObj)
	}
}

func TestWarnKeepsExplicitHint(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "disk trouble", "queue_save_failed",
		logging.Error(errors.New("disk full")),
		logging.String(logging.FieldErrorHint, "free some space"),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload[logging.FieldErrorHint] != "free some space" {
		t.Fatalf("hint overwritten: %v", payload[logging.FieldErrorHint])
	}
	if payload[logging.FieldErrorKind] != "internal" {
		t.Fatalf("error_kind = %v, want internal", payload[logging.FieldErrorKind])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("expected noop logger to be disabled")
	}
}

func TestFormatSubject(t *testing.T) {
	cases := []struct {
		component, group, item, want string
	}{
		{"", "", "", ""},
		{"status", "", "show/ep1", "status · show/ep1"},
		{"release", "g1", "", "release · group g1"},
	}
	for _, tc := range cases {
		if got := logging.FormatSubject(tc.component, tc.group, tc.item); got != tc.want {
			t.Fatalf("FormatSubject(%q,%q,%q) = %q, want %q", tc.component, tc.group, tc.item, got, tc.want)
		}
	}
}
