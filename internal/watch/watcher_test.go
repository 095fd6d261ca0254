package watch

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"cadence/internal/logging"
	"cadence/internal/testsupport"
)

func TestWatcherReportsMetadataAndQueueChanges(t *testing.T) {
	base := t.TempDir()
	contentDir := filepath.Join(base, "content")
	queueFile := filepath.Join(base, "state", "release-queue.yaml")
	w := New(contentDir, queueFile, 50*time.Millisecond, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, paths []string) {
			changes <- paths
		})
	}()

	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)

	testsupport.WriteFile(t, queueFile, "version: 1\n")
	testsupport.WriteFile(t, filepath.Join(contentDir, "ignored.txt"), "x")

	select {
	case paths := <-changes:
		if len(paths) != 1 || paths[0] != queueFile {
			t.Fatalf("expected only the queue file, got %v", paths)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for queue change")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestRelevantFiltersTempFiles(t *testing.T) {
	w := New("/content", "/state/release-queue.yaml", 0, logging.NewNop())
	if w.debounce != DefaultDebounce {
		t.Fatalf("expected default debounce, got %v", w.debounce)
	}
	cases := map[string]bool{
		"/content/show/ep/metadata.yaml":          true,
		"/content/show/ep/.metadata.yaml.tmp-123": false,
		"/state/release-queue.yaml":               true,
		"/state/release-queue.yaml.lock":          false,
		"/content/show/ep/notes.md":               false,
	}
	for path, want := range cases {
		if got := w.relevant(fsnotify.Event{Name: path, Op: fsnotify.Write}); got != want {
			t.Fatalf("relevant(%q) = %v, want %v", path, got, want)
		}
	}
}
