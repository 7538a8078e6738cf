// Package multistore fans results out to several stores at once, e.g. local
// files for inspection plus Redis for other consumers.
package multistore

import (
	"context"
	"errors"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/store"
)

// Multi wraps several store.Store implementations. Put delivers to every
// wrapped store sequentially; if one fails the rest still receive the
// result. Get asks the stores in order and returns the first hit.
type Multi struct {
	stores []store.Store
}

// New creates a Multi over the given stores.
func New(stores ...store.Store) *Multi {
	return &Multi{stores: stores}
}

// Put writes the result to every wrapped store, collecting errors.
func (m *Multi) Put(ctx context.Context, key string, result *model.MetricResult) error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Put(ctx, key, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Get returns the first store's answer for key. Stores that miss are passed
// over; when every store misses the result is store.ErrNotFound, and other
// failures are joined into the error.
func (m *Multi) Get(ctx context.Context, key string) (*model.MetricResult, error) {
	var errs []error
	for _, s := range m.stores {
		result, err := s.Get(ctx, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, store.ErrNotFound
}

// Close calls Close on every wrapped store, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
