package inventory

import (
	"context"
	"errors"
	"sync"
)

var ErrDuplicateID = errors.New("product id already exists")

type MemStore struct {
	mu    sync.RWMutex
	order []string
	m     map[string]Product
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]Product{}}
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) List(context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.m[id])
	}
	return out, nil
}

func (s *MemStore) Create(_ context.Context, p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[p.ID]; ok {
		return ErrDuplicateID
	}
	s.m[p.ID] = p
	s.order = append(s.order, p.ID)
	return nil
}
