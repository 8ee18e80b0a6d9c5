package record

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory record store, used by tests and small
// deployments that keep their entities in process.
type MemoryStore struct {
	mu    sync.RWMutex
	kinds map[string]map[string]Record
}

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{kinds: make(map[string]map[string]Record)}
}

// Put stores a record under the given kind, replacing any record with
// the same ID.
func (s *MemoryStore) Put(kind string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.kinds[kind]
	if !ok {
		byID = make(map[string]Record)
		s.kinds[kind] = byID
	}
	byID[rec.RecordID()] = rec
}

// Delete removes a record. Idempotent - no error on missing records.
func (s *MemoryStore) Delete(kind, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if byID, ok := s.kinds[kind]; ok {
		delete(byID, id)
	}
}

// Filter returns the IDs of all records of kind matching every
// condition, sorted ascending for deterministic results.
func (s *MemoryStore) Filter(_ context.Context, kind string, conds []Condition) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0)
	for id, rec := range s.kinds[kind] {
		if matchesAll(rec, conds) {
			ids = append(ids, id)
		}
	}

	sort.Strings(ids)
	return ids, nil
}

// LoadMany returns the records of kind by ID. Missing IDs are omitted.
func (s *MemoryStore) LoadMany(_ context.Context, kind string, ids []string) (map[string]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Record, len(ids))
	byID := s.kinds[kind]
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

func matchesAll(rec Record, conds []Condition) bool {
	for _, cond := range conds {
		if !matches(rec, cond) {
			return false
		}
	}
	return true
}

// matches reports whether any of the record's field values is in the
// condition's value set.
func matches(rec Record, cond Condition) bool {
	values := rec.RecordField(cond.Field)
	for _, have := range values {
		for _, want := range cond.Values {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
