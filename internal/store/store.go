// Package store defines where computed metric results are kept between
// runs. Backends are collaborators behind one small interface; the pipeline
// never depends on a concrete one.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/fieldhouse/rollcall/internal/model"
)

// ErrNotFound is returned by Get for a key that was never put. Wrap-aware:
// test with errors.Is.
var ErrNotFound = errors.New("result not found")

// Store defines the interface for metric result destinations.
type Store interface {
	// Put persists the result under key, replacing any previous value.
	Put(ctx context.Context, key string, result *model.MetricResult) error

	// Get returns the result stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (*model.MetricResult, error)

	// Close releases whatever the backend holds open.
	Close() error
}

// Config holds backend-specific settings.
type Config struct {
	FileRoot   string        // file backend: directory results are written under
	SQLitePath string        // sqlite backend: database file
	RedisAddr  string        // redis backend: host:port
	RedisTTL   time.Duration // redis backend: expiry per result, 0 keeps forever
}

// Key joins a dataset key and a metric name into the canonical store key.
func Key(datasetKey, metric string) string {
	return datasetKey + "/" + metric
}
