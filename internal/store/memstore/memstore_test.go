package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/store"
)

func countResult(keys ...string) *model.MetricResult {
	m := model.NewMetricResult(model.KindCount)
	for _, k := range keys {
		m.Observe(k, 1)
	}
	return m
}

func TestPutGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	want := countResult("a", "b", "a")
	if err := s.Put(ctx, "run/by_city", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "run/by_city")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Equal(want) {
		t.Error("stored result differs from what was put")
	}
}

func TestGetNeverPut(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), "run/absent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get = %v; want ErrNotFound", err)
	}
}

func TestPutReplaces(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Put(ctx, "k", countResult("a")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "k", countResult("b", "b")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v, ok := got.Get("b"); !ok || v != 2 {
		t.Errorf("replaced result = %v", got.Keys())
	}
}

func TestStoredCopyIsIsolated(t *testing.T) {
	s := New()
	ctx := context.Background()

	result := countResult("a")
	if err := s.Put(ctx, "k", result); err != nil {
		t.Fatalf("Put: %v", err)
	}
	result.Observe("a", 1) // caller keeps mutating after Put

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v, _ := got.Get("a"); v != 1 {
		t.Errorf("stored value changed after Put: %v", v)
	}

	got.Observe("a", 5) // and mutating what Get returned
	again, _ := s.Get(ctx, "k")
	if v, _ := again.Get("a"); v != 1 {
		t.Errorf("stored value changed through Get's copy: %v", v)
	}
}

func TestNilResult(t *testing.T) {
	if err := New().Put(context.Background(), "k", nil); err == nil {
		t.Error("Put accepted a nil result")
	}
}

func TestRegistered(t *testing.T) {
	ctor, err := store.Get("memory")
	if err != nil {
		t.Fatalf("Get(memory): %v", err)
	}
	st, err := ctor(store.Config{})
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}
	defer st.Close()
}
