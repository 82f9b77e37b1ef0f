package journal

import (
	"sync"

	"github.com/pbaille/moodlog/internal/domain"
)

// Store is the ordered, append-only collection of enriched entries for a
// session. Stored entries are never mutated, so snapshots may share them.
type Store struct {
	mu      sync.RWMutex
	entries []domain.Entry
}

// NewStore returns a Store seeded with entries loaded from durable storage
func NewStore(initial []domain.Entry) *Store {
	return &Store{entries: append([]domain.Entry(nil), initial...)}
}

// Append adds an enriched entry at the end
func (s *Store) Append(entry domain.Entry) {
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
}

// Snapshot returns a copy of the entries in insertion order
func (s *Store) Snapshot() []domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]domain.Entry, len(s.entries))
	copy(copied, s.entries)
	return copied
}

// Len returns the number of stored entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
