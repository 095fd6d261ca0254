package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cadence/internal/content"
	"cadence/internal/logging"
	"cadence/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFileAccess(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "queue.yaml")
	if result := CheckFileAccess("queue", missing); !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected missing file in writable dir to pass, got %+v", result)
	}
	if err := os.WriteFile(missing, []byte("version: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckFileAccess("queue", missing); !result.Passed {
		t.Fatalf("expected existing file to pass, got %+v", result)
	}
	if result := CheckFileAccess("queue", dir); result.Passed {
		t.Fatal("expected directory path to fail")
	}
}

func TestCheckProfiles(t *testing.T) {
	dir := t.TempDir()
	if result := CheckProfiles(filepath.Join(dir, "missing.yaml")); !result.Passed {
		t.Fatalf("expected built-in presets to pass, got %+v", result)
	}
	broken := filepath.Join(dir, "broken.yaml")
	testsupport.WriteFile(t, broken, "profiles: [1, 2]\n")
	if result := CheckProfiles(broken); result.Passed {
		t.Fatal("expected malformed table to fail")
	}
}

func TestCheckReferencesReportsDanglingGroups(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := content.NewFileStore(cfg.Paths.ContentDir, logging.NewNop())
	item := testsupport.NewItem(t, store, "show/ep-1", content.StatusReady)
	item.Scheduling = &content.Scheduling{ReleaseGroupID: "gone"}
	if err := store.Put(context.Background(), item); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	result := CheckReferences(context.Background(), cfg, logging.NewNop())
	if result.Passed {
		t.Fatal("expected dangling reference to fail the check")
	}
	if !strings.Contains(result.Detail, "show/ep-1 -> gone") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestRunAllOnFreshConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, result := range RunAll(context.Background(), cfg, logging.NewNop()) {
		if !result.Passed {
			t.Fatalf("%s failed: %s", result.Name, result.Detail)
		}
	}
}
