package queue

import (
	"context"
	"fmt"
	"log/slog"

	"cadence/internal/config"
)

// Store loads and saves the release queue document.
//
// Save compares doc.Version with the stored version and fails with
// ErrVersionConflict when they differ. On success doc.Version is advanced to
// the newly stored value.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	Close() error
}

// Update performs one read-modify-write cycle against store. Nothing is saved
// when fn returns an error.
func Update(ctx context.Context, store Store, fn func(*Document) error) (*Document, error) {
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	if err := store.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Open returns the backend selected by cfg.Queue.Backend.
func Open(cfg *config.Config, logger *slog.Logger) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("open queue: config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	switch cfg.Queue.Backend {
	case config.BackendYAML, "":
		return NewFileStore(cfg.Queue.File, cfg.QueueLockPath(), logger), nil
	case config.BackendSQLite:
		return OpenSQLite(cfg.Queue.File, logger)
	default:
		return nil, fmt.Errorf("open queue: unsupported backend %q", cfg.Queue.Backend)
	}
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
