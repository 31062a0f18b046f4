package snapshot

import (
	"sync"

	"github.com/modelarena/challenger-stream/internal/models"
)

// MemoryStore is the in-process Store implementation. Entries are never
// evicted here; eviction is the owning application's concern.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*models.EvaluationSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*models.EvaluationSnapshot),
	}
}

func (s *MemoryStore) Read(key string) (*models.EvaluationSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.entries[key]
	return snap, ok
}

func (s *MemoryStore) Write(key string, update Updater) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.entries[key]
	next := update(prev)
	if next == prev {
		return
	}
	if next == nil {
		return
	}
	s.entries[key] = next
}
