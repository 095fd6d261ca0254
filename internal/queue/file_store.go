package queue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"cadence/internal/fileutil"
	"cadence/internal/logging"
)

const lockRetryDelay = 25 * time.Millisecond

// FileStore keeps the queue as a YAML document. Every Load and Save holds an
// exclusive flock on lockPath so separate processes never interleave a
// read-modify-write.
type FileStore struct {
	path     string
	lockPath string
	logger   *slog.Logger

	mu sync.Mutex
}

// NewFileStore returns a store for the document at path guarded by lockPath.
func NewFileStore(path, lockPath string, logger *slog.Logger) *FileStore {
	if lockPath == "" {
		lockPath = path + ".lock"
	}
	return &FileStore{
		path:     path,
		lockPath: lockPath,
		logger:   logging.NewComponentLogger(logger, "queue"),
	}
}

// Path returns the YAML document location.
func (s *FileStore) Path() string { return s.path }

// Load reads the document. A missing file yields an empty version-0 document.
func (s *FileStore) Load(ctx context.Context) (*Document, error) {
	var doc *Document
	err := s.withLock(ensureContext(ctx), func() error {
		var readErr error
		doc, readErr = s.read()
		return readErr
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save writes doc if the stored version still equals doc.Version.
func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("save queue: document is nil")
	}
	return s.withLock(ensureContext(ctx), func() error {
		current, err := s.read()
		if err != nil {
			return err
		}
		if current.Version != doc.Version {
			return fmt.Errorf("%w: stored version %d, loaded version %d", ErrVersionConflict, current.Version, doc.Version)
		}
		next := doc.Clone()
		next.Version = current.Version + 1
		data, err := yaml.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode release queue: %w", err)
		}
		backup := current.Version > 0
		if err := fileutil.WriteAtomic(s.path, data, 0o644, backup); err != nil {
			return fmt.Errorf("write release queue: %w", err)
		}
		doc.Version = next.Version
		s.logger.Debug("release queue saved",
			logging.String("path", s.path),
			logging.Any("version", doc.Version),
		)
		return nil
	})
}

// Close is a no-op; locks are only held for the duration of a call.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) withLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(s.lockPath)
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire queue lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("acquire queue lock: %s is held by another process", s.lockPath)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			s.logger.Warn("failed to release queue lock",
				logging.String("lock", s.lockPath),
				logging.Error(unlockErr),
			)
		}
	}()
	return fn()
}

func (s *FileStore) read() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("read release queue: %w", err)
	}
	doc := NewDocument()
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode release queue %s: %w", s.path, err)
	}
	doc.normalize()
	return doc, nil
}
