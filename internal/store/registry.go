package store

import "fmt"

// Constructor is a function that creates a new Store instance.
type Constructor func(cfg Config) (Store, error)

var registry = map[string]Constructor{}

// Register adds a store constructor under the given backend name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the store constructor for the given backend name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown store backend: %s", name)
	}
	return ctor, nil
}

// Backends returns the names of all registered store backends.
func Backends() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
