package nodegraph

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store in process memory. Documents are copied on the
// way in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	graphs map[string]*GraphData
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{graphs: make(map[string]*GraphData)}
}

// CreateSchema is a no-op.
func (s *MemoryStore) CreateSchema(ctx context.Context) error { return nil }

// DropSchema removes every stored document.
func (s *MemoryStore) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs = make(map[string]*GraphData)
	return nil
}

// SaveGraph stores a copy of data under graphID, replacing any previous one.
func (s *MemoryStore) SaveGraph(ctx context.Context, graphID string, data *GraphData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[graphID] = data.Clone()
	return nil
}

// LoadGraph returns a copy of the document. Returns nil, nil if graphID is unknown.
func (s *MemoryStore) LoadGraph(ctx context.Context, graphID string) (*GraphData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.graphs[graphID]
	if !ok {
		return nil, nil
	}
	return data.Clone(), nil
}

// DeleteGraph removes the document. No error if graphID doesn't exist.
func (s *MemoryStore) DeleteGraph(ctx context.Context, graphID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, graphID)
	return nil
}

// ListGraphs returns the stored graph IDs in sorted order.
func (s *MemoryStore) ListGraphs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.graphs))
	for id := range s.graphs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
