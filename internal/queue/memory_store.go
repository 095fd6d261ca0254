package queue

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps the document in process memory. Documents are cloned on
// the way in and out so callers cannot mutate stored state.
type MemoryStore struct {
	mu    sync.Mutex
	doc   *Document
	saves int
}

// NewMemoryStore returns a store seeded with doc, or an empty document.
func NewMemoryStore(doc *Document) *MemoryStore {
	if doc == nil {
		doc = NewDocument()
	}
	seeded := doc.Clone()
	seeded.normalize()
	return &MemoryStore{doc: seeded}
}

// Load returns a copy of the stored document.
func (s *MemoryStore) Load(ctx context.Context) (*Document, error) {
	if err := ensureContext(ctx).Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), nil
}

// Save stores a copy of doc if its version is current.
func (s *MemoryStore) Save(ctx context.Context, doc *Document) error {
	if err := ensureContext(ctx).Err(); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("save queue: document is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Version != doc.Version {
		return fmt.Errorf("%w: stored version %d, loaded version %d", ErrVersionConflict, s.doc.Version, doc.Version)
	}
	next := doc.Clone()
	next.Version = s.doc.Version + 1
	s.doc = next
	s.saves++
	doc.Version = next.Version
	return nil
}

// Saves reports how many successful saves the store has accepted.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
