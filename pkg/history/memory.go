package history

import (
	"context"
	"sync"

	"github.com/umputun/newsdigest/pkg/domain"
)

// MemoryStore keeps the history in memory, used for dry runs and tests
type MemoryStore struct {
	mu      sync.Mutex
	history domain.History
}

// NewMemoryStore makes an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{history: domain.History{Editions: []domain.Edition{}}}
}

// Load returns a copy of the stored history
func (s *MemoryStore) Load(_ context.Context) (domain.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneHistory(s.history), nil
}

// Save replaces the stored history with a copy of h
func (s *MemoryStore) Save(_ context.Context, h domain.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = cloneHistory(h)
	return nil
}

// Location returns the store name
func (s *MemoryStore) Location() string { return "memory" }

// Close does nothing
func (s *MemoryStore) Close() error { return nil }

func cloneHistory(h domain.History) domain.History {
	res := domain.History{Editions: make([]domain.Edition, len(h.Editions))}
	for i, ed := range h.Editions {
		res.Editions[i] = domain.Edition{Date: ed.Date, Articles: make([]domain.Article, len(ed.Articles))}
		copy(res.Editions[i].Articles, ed.Articles)
	}
	return res
}
