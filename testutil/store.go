package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "procurify-api/errors"
)

// FilterFunc decides whether an item belongs in a result.
type FilterFunc[T any] func(item T) bool

// SortFunc orders two items.
type SortFunc[T any] func(i, j T) bool

// InMemoryStore is a generic in-memory store that remembers insertion order.
// Failures can be injected per operation name with FailOn.
type InMemoryStore[T any] struct {
	mu     sync.RWMutex
	items  map[string]T
	order  []string
	faults map[string]error
}

func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items:  make(map[string]T),
		faults: make(map[string]error),
	}
}

// FailOn makes every later call of op return err. A nil err clears it.
func (s *InMemoryStore[T]) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *InMemoryStore[T]) fault(op string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.faults[op]
}

func (s *InMemoryStore[T]) Create(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.AlreadyExists("record", id)
	}
	s.items[id] = item
	s.order = append(s.order, id)
	return nil
}

func (s *InMemoryStore[T]) Get(_ context.Context, id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

func (s *InMemoryStore[T]) Update(_ context.Context, id string, mutate func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return false
	}
	s.items[id] = mutate(item)
	return true
}

// List returns matching items in insertion order, or sorted by sortFn.
func (s *InMemoryStore[T]) List(filterFn FilterFunc[T], sortFn SortFunc[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if filterFn == nil || filterFn(item) {
			result = append(result, item)
		}
	}
	if sortFn != nil {
		sort.SliceStable(result, func(i, j int) bool {
			return sortFn(result[i], result[j])
		})
	}
	return result
}

func (s *InMemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

type snapshot[T any] struct {
	items map[string]T
	order []string
}

func (s *InMemoryStore[T]) snapshot() snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make(map[string]T, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	return snapshot[T]{items: items, order: append([]string(nil), s.order...)}
}

func (s *InMemoryStore[T]) restore(snap snapshot[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = snap.items
	s.order = snap.order
}

// checkpoint captures the store and returns a func that rolls it back.
func (s *InMemoryStore[T]) checkpoint() func() {
	snap := s.snapshot()
	return func() { s.restore(snap) }
}

// page applies limit/offset the way the SQL stores do.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
