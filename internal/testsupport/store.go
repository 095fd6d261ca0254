package testsupport

import (
	"context"
	"sync"
	"testing"

	"cadence/internal/config"
	"cadence/internal/content"
	"cadence/internal/logging"
	"cadence/internal/queue"
)

// MustOpenQueue opens the configured queue.Store for tests and registers cleanup.
func MustOpenQueue(t testing.TB, cfg *config.Config) queue.Store {
	t.Helper()

	store, err := queue.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewItem creates a content item with the given status in store.
func NewItem(t testing.TB, store content.Store, id string, status content.Status) *content.Item {
	t.Helper()

	series, slug, err := content.SplitID(id)
	if err != nil {
		t.Fatalf("content.SplitID(%q): %v", id, err)
	}
	item, err := content.NewItem(series, slug, "")
	if err != nil {
		t.Fatalf("content.NewItem(%q): %v", id, err)
	}
	item.Status = status
	if err := store.Put(context.Background(), item); err != nil {
		t.Fatalf("store.Put(%s): %v", id, err)
	}
	return item
}

// MustGetItem loads id from store.
func MustGetItem(t testing.TB, store content.Store, id string) *content.Item {
	t.Helper()

	item, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("store.Get(%s): %v", id, err)
	}
	return item
}

// FlakyItemStore wraps a content.Store, counts writes per item, and fails
// writes for items listed in FailPut.
type FlakyItemStore struct {
	content.Store

	mu      sync.Mutex
	failPut map[string]error
	puts    map[string]int
}

// NewFlakyItemStore wraps inner.
func NewFlakyItemStore(inner content.Store) *FlakyItemStore {
	return &FlakyItemStore{
		Store:   inner,
		failPut: map[string]error{},
		puts:    map[string]int{},
	}
}

// FailPut makes every write for id return err. A nil err clears the failure.
func (s *FlakyItemStore) FailPut(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failPut, id)
		return
	}
	s.failPut[id] = err
}

// Put records the write and forwards it unless a failure is armed.
func (s *FlakyItemStore) Put(ctx context.Context, item *content.Item) error {
	s.mu.Lock()
	s.puts[item.ID]++
	failErr := s.failPut[item.ID]
	s.mu.Unlock()
	if failErr != nil {
		return failErr
	}
	return s.Store.Put(ctx, item)
}

// Puts reports how many writes were attempted for id.
func (s *FlakyItemStore) Puts(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts[id]
}

// ResetPuts clears write counters.
func (s *FlakyItemStore) ResetPuts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts = map[string]int{}
}
