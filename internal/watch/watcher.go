package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"cadence/internal/content"
	"cadence/internal/logging"
)

// DefaultDebounce is the quiet period that ends a burst of changes.
const DefaultDebounce = 250 * time.Millisecond

// ChangeFunc receives the sorted set of documents changed in one burst.
type ChangeFunc func(ctx context.Context, paths []string)

// Watcher observes the content tree and the queue document.
type Watcher struct {
	contentDir string
	queueFile  string
	debounce   time.Duration
	logger     *slog.Logger
}

// New returns a watcher for contentDir and queueFile. A non-positive debounce
// uses DefaultDebounce.
func New(contentDir, queueFile string, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		contentDir: contentDir,
		queueFile:  queueFile,
		debounce:   debounce,
		logger:     logging.NewComponentLogger(logger, "watch"),
	}
}

// Run blocks until ctx is cancelled, calling onChange after each debounced
// burst of relevant changes.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.contentDir); err != nil {
		return err
	}
	queueDir := filepath.Dir(w.queueFile)
	if err := os.MkdirAll(queueDir, 0o755); err != nil {
		return fmt.Errorf("ensure dir %s: %w", queueDir, err)
	}
	if err := fsw.Add(queueDir); err != nil {
		return fmt.Errorf("watch %s: %w", queueDir, err)
	}
	w.logger.Info("watching for changes",
		logging.String("content_dir", w.contentDir),
		logging.String("queue_file", w.queueFile),
	)

	pending := map[string]struct{}{}
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err := w.addTree(fsw, event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", logging.String("path", event.Name), logging.Error(err))
					}
					continue
				}
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("fsnotify event", logging.String("op", event.Op.String()), logging.String("path", event.Name))
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", logging.Error(err))
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			pending = map[string]struct{}{}
			onChange(ctx, paths)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	name := event.Name
	if filepath.Clean(name) == filepath.Clean(w.queueFile) {
		return true
	}
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return base == content.MetadataFileName
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("ensure dir %s: %w", root, err)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
