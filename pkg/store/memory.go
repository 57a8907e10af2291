package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// MemoryStore keeps workflows in an in-process map. It is the default for
// tests and single-process servers; contents are lost on shutdown.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Get retrieves a workflow by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (wf workflow.Workflow, err error) {
	start := time.Now()
	defer func() { observeGet(ctx, "memory", id, start, err) }()

	s.mu.RLock()
	data, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return workflow.Workflow{}, fmt.Errorf("workflow %s: %w", id, ErrNotFound)
	}
	wf, err = workflow.Unmarshal(data)
	if err != nil {
		return workflow.Workflow{}, fmt.Errorf("workflow %s: %w", id, err)
	}
	return wf, nil
}

// Put creates or replaces a workflow. Documents are stored serialized so
// later mutation of the caller's value cannot corrupt the store.
func (s *MemoryStore) Put(ctx context.Context, wf workflow.Workflow) (err error) {
	start := time.Now()
	var size int
	defer func() { observePut(ctx, "memory", wf.ID, size, start, err) }()

	data, err := workflow.Marshal(wf)
	if err != nil {
		return fmt.Errorf("workflow %s: %w", wf.ID, err)
	}
	size = len(data)

	s.mu.Lock()
	s.docs[wf.ID] = data
	s.mu.Unlock()
	return nil
}

// Delete removes a workflow; absent IDs are ignored.
func (s *MemoryStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observeDelete(ctx, "memory", id, start, err) }()

	s.mu.Lock()
	delete(s.docs, id)
	s.mu.Unlock()
	return nil
}

// List returns all stored workflow IDs, sorted.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
