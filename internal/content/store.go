package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"cadence/internal/fileutil"
	"cadence/internal/logging"
	"cadence/internal/services"
)

// MetadataFileName is the document name inside each episode directory.
const MetadataFileName = "metadata.yaml"

const listConcurrency = 8

// Store persists item metadata documents. Implementations return errors
// wrapping services.ErrNotFound for missing items.
type Store interface {
	Get(ctx context.Context, id string) (*Item, error)
	Put(ctx context.Context, item *Item) error
	List(ctx context.Context) ([]*Item, error)
}

// Create persists item only if no document exists for its ID yet.
func Create(ctx context.Context, store Store, item *Item) error {
	if err := item.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "content", "create", "", err)
	}
	if _, err := store.Get(ctx, item.ID); err == nil {
		return services.Wrap(services.ErrAlreadyExists, "content", "create", item.ID, nil)
	} else if !errors.Is(err, services.ErrNotFound) {
		return err
	}
	return store.Put(ctx, item)
}

// FileStore keeps one YAML document per item under a root directory.
type FileStore struct {
	root   string
	logger *slog.Logger
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	return &FileStore{root: dir, logger: logging.NewComponentLogger(logger, "metadata")}
}

// Root returns the content directory.
func (s *FileStore) Root() string { return s.root }

// Path returns the metadata document location for id.
func (s *FileStore) Path(id string) (string, error) {
	series, slug, err := SplitID(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, series, slug, MetadataFileName), nil
}

// Get loads the document for id.
func (s *FileStore) Get(ctx context.Context, id string) (*Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.Path(id)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "metadata", "get", "", err)
	}
	return s.read(path, id)
}

func (s *FileStore) read(path, id string) (*Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "metadata", "get", "item "+id, nil)
		}
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}
	var item Item
	if err := yaml.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", path, err)
	}
	item.ID = id
	if item.Status == "" {
		item.Status = StatusDraft
	}
	return &item, nil
}

// Put writes item atomically.
func (s *FileStore) Put(ctx context.Context, item *Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "metadata", "put", "", err)
	}
	path, err := s.Path(item.ID)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode metadata %s: %w", item.ID, err)
	}
	if err := fileutil.WriteAtomic(path, data, 0o644, false); err != nil {
		return fmt.Errorf("write metadata %s: %w", item.ID, err)
	}
	return nil
}

// List reads every metadata document under the root, sorted by ID. Documents
// that fail to decode are skipped with a warning so one broken file cannot
// hide the rest of the catalogue.
func (s *FileStore) List(ctx context.Context) ([]*Item, error) {
	paths, err := filepath.Glob(filepath.Join(s.root, "*", "*", MetadataFileName))
	if err != nil {
		return nil, fmt.Errorf("scan content dir: %w", err)
	}

	var (
		mu    sync.Mutex
		items = make([]*Item, 0, len(paths))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slugDir := filepath.Dir(path)
			id := filepath.Base(filepath.Dir(slugDir)) + "/" + filepath.Base(slugDir)
			if _, _, err := SplitID(id); err != nil {
				s.logger.Debug("skipping non-normalized content directory", logging.String("path", slugDir))
				return nil
			}
			item, err := s.read(path, id)
			if err != nil {
				logging.WarnWithContext(s.logger, "skipping unreadable metadata document", "metadata_decode_failed",
					logging.ItemID(id),
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldImpact, "item omitted from listings and calendar"),
					logging.String(logging.FieldErrorHint, "fix the YAML syntax in the metadata document"),
				)
				return nil
			}
			mu.Lock()
			items = append(items, item)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// MemoryStore is an in-process Store used by tests and previews.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*Item
}

// NewMemoryStore returns a store seeded with clones of items.
func NewMemoryStore(items ...*Item) *MemoryStore {
	s := &MemoryStore{items: make(map[string]*Item, len(items))}
	for _, item := range items {
		s.items[item.ID] = item.Clone()
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "metadata", "get", "item "+id, nil)
	}
	return item.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, item *Item) error {
	if err := item.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "metadata", "put", "", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item.Clone()
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]*Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item.Clone())
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}
