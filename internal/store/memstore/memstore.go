// Package memstore keeps results in process memory. It backs tests and
// one-shot runs where persistence across processes does not matter.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/store"
)

func init() {
	store.Register("memory", func(cfg store.Config) (store.Store, error) {
		return New(), nil
	})
}

// Store is an in-memory result store. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	results map[string]*model.MetricResult
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{results: make(map[string]*model.MetricResult)}
}

// Put stores a private copy of the result, so later mutation of the caller's
// value cannot change what was persisted.
func (s *Store) Put(_ context.Context, key string, result *model.MetricResult) error {
	if result == nil {
		return fmt.Errorf("memstore: put %s: nil result", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[key] = result.Clone()
	return nil
}

// Get returns a copy of the stored result.
func (s *Store) Get(_ context.Context, key string) (*model.MetricResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[key]
	if !ok {
		return nil, fmt.Errorf("memstore: get %s: %w", key, store.ErrNotFound)
	}
	return result.Clone(), nil
}

// Close is a no-op; memory needs no teardown.
func (s *Store) Close() error { return nil }
