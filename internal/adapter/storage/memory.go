package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.RecentSearchesStorage = (*Memory)(nil)

// A Memory keeps recent searches for the lifetime of the process.
type Memory struct {
	mu    sync.Mutex
	terms []string
}

func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) LoadRecent(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.terms), nil
}

func (s *Memory) SaveRecent(_ context.Context, terms []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms = slices.Clone(terms)
	return nil
}

func (s *Memory) Close() {}
