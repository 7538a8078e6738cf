// Package filestore persists results as JSON files under a root directory,
// one file per key. The slash-separated key becomes the relative path, so a
// run's results land together in one directory.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/store"
)

func init() {
	store.Register("file", func(cfg store.Config) (store.Store, error) {
		root := cfg.FileRoot
		if root == "" {
			root = "results"
		}
		return New(root)
	})
}

// Store writes one JSON document per key under root.
type Store struct {
	root string
}

// New creates the root directory if needed and returns the store.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create root: %w", err)
	}
	return &Store{root: root}, nil
}

// Put writes the result to a temporary file and renames it into place, so
// readers never observe a half-written document.
func (s *Store) Put(_ context.Context, key string, result *model.MetricResult) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("filestore: put %s: %w", key, err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("filestore: put %s: marshal: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return fmt.Errorf("filestore: put %s: %w", key, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: put %s: %w", key, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: put %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: put %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: put %s: %w", key, err)
	}
	return nil
}

// Get reads the document stored under key.
func (s *Store) Get(_ context.Context, key string) (*model.MetricResult, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("filestore: get %s: %w", key, store.ErrNotFound)
		}
		return nil, fmt.Errorf("filestore: get %s: %w", key, err)
	}
	var result model.MetricResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("filestore: get %s: decode: %w", key, err)
	}
	return &result, nil
}

// Close is a no-op; nothing stays open between calls.
func (s *Store) Close() error { return nil }

// path maps a key to its file, confined to the root directory.
func (s *Store) path(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("filestore: invalid key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("filestore: invalid key %q", key)
		}
	}
	return filepath.Join(s.root, filepath.FromSlash(key)+".json"), nil
}
