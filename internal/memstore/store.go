// Package memstore keeps products in process memory. Each Store owns its own
// table, so tests get isolation from a fresh instance.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-catalog/internal/catalog"
)

type Store struct {
	mu    sync.RWMutex
	byID  map[string]catalog.Product
	order []string
	now   func() time.Time
}

func New() *Store {
	return &Store{
		byID: make(map[string]catalog.Product),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

var _ catalog.Store = (*Store)(nil)

func (s *Store) List(_ context.Context) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (catalog.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	return p, ok, nil
}

func (s *Store) Create(_ context.Context, in catalog.NewProduct) (catalog.Product, error) {
	p := in.Build(uuid.NewString(), s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[p.ID] = p
	s.order = append(s.order, p.ID)
	return p, nil
}

func (s *Store) Update(_ context.Context, id string, patch catalog.ProductPatch) (catalog.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return catalog.Product{}, false, nil
	}
	if patch.Empty() {
		return p, true, nil
	}
	p = patch.Apply(p)
	p.UpdatedAt = s.now()
	s.byID[id] = p
	return p, true, nil
}

func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false, nil
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Len reports the number of stored products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
