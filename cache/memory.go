package cache

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory tagged cache implementation.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memEntry
	byTag   map[string]map[string]struct{}
}

type memEntry struct {
	value []byte
	tags  []string
}

// NewMemoryStore creates a new in-memory tagged cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memEntry),
		byTag:   make(map[string]map[string]struct{}),
	}
}

// Get retrieves a value from the cache. Returns (nil, false) on miss.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return entry.value, true
}

// Set stores a value permanently associated with the given tags.
// Overwriting a key replaces its tag associations.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok {
		s.unindex(key, old.tags)
	}

	s.entries[key] = &memEntry{value: value, tags: tags}
	for _, tag := range tags {
		keys, ok := s.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}

	return nil
}

// Invalidate removes every entry carrying any of the given tags.
// Idempotent - unknown tags are ignored.
func (s *MemoryStore) Invalidate(_ context.Context, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range tags {
		for key := range s.byTag[tag] {
			if entry, ok := s.entries[key]; ok {
				s.unindex(key, entry.tags)
				delete(s.entries, key)
			}
		}
		delete(s.byTag, tag)
	}

	return nil
}

// Flush removes all entries and tag associations.
func (s *MemoryStore) Flush(_ context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]*memEntry)
	s.byTag = make(map[string]map[string]struct{})
	s.mu.Unlock()
	return nil
}

// unindex removes key from the tag index (must be called with lock held).
func (s *MemoryStore) unindex(key string, tags []string) {
	for _, tag := range tags {
		if keys, ok := s.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(s.byTag, tag)
			}
		}
	}
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
