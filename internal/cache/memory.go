package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
)

// DefaultMemoryCapacity bounds the in-memory store when no capacity is set.
const DefaultMemoryCapacity = 10000

// MemoryStore is a thread-safe LRU store of partition results.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

type memoryEntry struct {
	key    string
	result *aggregation.PartialResult
}

// NewMemoryStore creates an LRU store holding at most capacity entries.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns a copy of the entry for key, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) (*aggregation.PartialResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}

	s.order.MoveToFront(elem)
	return clone(elem.Value.(*memoryEntry).result), nil
}

// Put stores a copy of result, evicting the least recently used entry if full.
func (s *MemoryStore) Put(_ context.Context, key string, result *aggregation.PartialResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		s.order.MoveToFront(elem)
		elem.Value.(*memoryEntry).result = clone(result)
		return nil
	}

	if s.order.Len() >= s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			delete(s.entries, oldest.Value.(*memoryEntry).key)
			s.order.Remove(oldest)
		}
	}

	s.entries[key] = s.order.PushFront(&memoryEntry{key: key, result: clone(result)})
	return nil
}

// Delete removes the entry for key if present.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		delete(s.entries, key)
		s.order.Remove(elem)
	}
}

// Clear removes all entries.
func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*list.Element)
	s.order = list.New()
	return nil
}

// Len reports the number of entries held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
