package multistore

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/store"
	"github.com/fieldhouse/rollcall/internal/store/memstore"
)

// failStore errors on every operation.
type failStore struct{ err error }

func (f *failStore) Put(context.Context, string, *model.MetricResult) error { return f.err }
func (f *failStore) Get(context.Context, string) (*model.MetricResult, error) {
	return nil, f.err
}
func (f *failStore) Close() error { return f.err }

func countResult(keys ...string) *model.MetricResult {
	m := model.NewMetricResult(model.KindCount)
	for _, k := range keys {
		m.Observe(k, 1)
	}
	return m
}

func TestPutFansOut(t *testing.T) {
	a, b := memstore.New(), memstore.New()
	m := New(a, b)
	ctx := context.Background()

	if err := m.Put(ctx, "k", countResult("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	for i, s := range []store.Store{a, b} {
		if _, err := s.Get(ctx, "k"); err != nil {
			t.Errorf("store %d missing the result: %v", i, err)
		}
	}
}

func TestPutContinuesPastFailure(t *testing.T) {
	boom := errors.New("backend down")
	b := memstore.New()
	m := New(&failStore{err: boom}, b)
	ctx := context.Background()

	err := m.Put(ctx, "k", countResult("x"))
	if !errors.Is(err, boom) {
		t.Fatalf("Put error = %v; want the backend failure", err)
	}
	// The healthy store still received the result.
	if _, err := b.Get(ctx, "k"); err != nil {
		t.Errorf("second store missing the result: %v", err)
	}
}

func TestGetFirstHitWins(t *testing.T) {
	a, b := memstore.New(), memstore.New()
	ctx := context.Background()
	if err := b.Put(ctx, "k", countResult("x", "x")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := New(a, b).Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v, _ := got.Get("x"); v != 2 {
		t.Errorf("x = %v; want 2", v)
	}
}

func TestGetAllMiss(t *testing.T) {
	m := New(memstore.New(), memstore.New())
	if _, err := m.Get(context.Background(), "absent"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get = %v; want ErrNotFound", err)
	}
}

func TestGetReportsRealFailures(t *testing.T) {
	boom := errors.New("backend down")
	m := New(&failStore{err: boom}, memstore.New())
	_, err := m.Get(context.Background(), "absent")
	if !errors.Is(err, boom) {
		t.Errorf("Get = %v; want the backend failure", err)
	}
}

func TestCloseCollectsErrors(t *testing.T) {
	boom := errors.New("close failed")
	m := New(memstore.New(), &failStore{err: boom})
	if err := m.Close(); !errors.Is(err, boom) {
		t.Errorf("Close = %v; want the backend failure", err)
	}
}
