// Package redistore persists results in Redis so several consumers can read
// a run's tables without touching the source data.
package redistore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/store"
)

// keyPrefix namespaces rollcall's entries inside a shared Redis.
const keyPrefix = "rollcall:"

func init() {
	store.Register("redis", func(cfg store.Config) (store.Store, error) {
		return New(cfg.RedisAddr, cfg.RedisTTL)
	})
}

// Store keeps one JSON document per key in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr and verifies it answers. ttl sets a per-key
// expiry; zero keeps results until they are replaced.
func New(addr string, ttl time.Duration) (*Store, error) {
	if addr == "" {
		return nil, fmt.Errorf("redistore: no address configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redistore: ping %s: %w", addr, err)
	}
	return &Store{client: client, ttl: ttl}, nil
}

// Put stores the result under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, result *model.MetricResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("redistore: put %s: marshal: %w", key, err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redistore: put %s: %w", key, err)
	}
	return nil
}

// Get returns the result stored under key.
func (s *Store) Get(ctx context.Context, key string) (*model.MetricResult, error) {
	payload, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redistore: get %s: %w", key, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redistore: get %s: %w", key, err)
	}
	var result model.MetricResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("redistore: get %s: decode: %w", key, err)
	}
	return &result, nil
}

// Close closes the client connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
