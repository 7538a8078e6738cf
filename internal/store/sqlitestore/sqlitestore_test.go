package sqlitestore

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
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

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollcall.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	want := countResult("b", "a", "b")
	if err := s.Put(ctx, "run/by_city", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "run/by_city")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Equal(want) {
		t.Error("round-trip changed the values")
	}
	if !reflect.DeepEqual(got.Keys(), want.Keys()) {
		t.Errorf("round-trip changed key order: %v vs %v", got.Keys(), want.Keys())
	}
}

func TestGetNeverPut(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "rollcall.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(context.Background(), "run/absent"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get = %v; want ErrNotFound", err)
	}
}

func TestPutReplaces(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "rollcall.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.Put(ctx, "k", countResult("a")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "k", countResult("b")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := got.Get("a"); ok {
		t.Error("old result still visible after replacement")
	}
}

func TestResultsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollcall.db")
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Put(ctx, "run/by_state", countResult("IA", "MN", "IA")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(ctx, "run/by_state")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if v, _ := got.Get("IA"); v != 2 {
		t.Errorf("IA = %v; want 2", v)
	}
}

func TestRegistered(t *testing.T) {
	ctor, err := store.Get("sqlite")
	if err != nil {
		t.Fatalf("Get(sqlite): %v", err)
	}
	st, err := ctor(store.Config{SQLitePath: filepath.Join(t.TempDir(), "r.db")})
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}
	defer st.Close()
}
