package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a schema declaration from a YAML file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("schema: %s: %w", path, err)
	}
	return &s, nil
}
