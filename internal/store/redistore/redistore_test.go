package redistore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/store"
)

// skipWithoutRedis skips unless REDIS_ADDR points at a reachable server.
func skipWithoutRedis(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping redis store tests")
	}
	s, err := New(addr, time.Minute)
	if err != nil {
		t.Fatalf("New(%s): %v", addr, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testKey(t *testing.T) string {
	return fmt.Sprintf("test/%s/%d", t.Name(), time.Now().UnixNano())
}

func countResult(keys ...string) *model.MetricResult {
	m := model.NewMetricResult(model.KindCount)
	for _, k := range keys {
		m.Observe(k, 1)
	}
	return m
}

func TestNoAddress(t *testing.T) {
	if _, err := New("", 0); err == nil {
		t.Error("New accepted an empty address")
	}
}

func TestRoundTrip(t *testing.T) {
	s := skipWithoutRedis(t)
	ctx := context.Background()
	key := testKey(t)

	want := countResult("b", "a", "b")
	if err := s.Put(ctx, key, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Equal(want) {
		t.Error("round-trip changed the values")
	}
}

func TestGetNeverPut(t *testing.T) {
	s := skipWithoutRedis(t)
	if _, err := s.Get(context.Background(), testKey(t)); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get = %v; want ErrNotFound", err)
	}
}

func TestPutReplaces(t *testing.T) {
	s := skipWithoutRedis(t)
	ctx := context.Background()
	key := testKey(t)

	if err := s.Put(ctx, key, countResult("a")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, key, countResult("b")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := got.Get("a"); ok {
		t.Error("old result still visible after replacement")
	}
}
