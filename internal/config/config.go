// Package config loads all rollcall settings from ROLLCALL_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all rollcall configuration.
type Config struct {
	Environment string `envconfig:"ROLLCALL_ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"ROLLCALL_LOG_LEVEL" default:"info"`

	// Mode selects what the process does: "run" executes the pipeline,
	// "lookup" fetches one stored result, "search" opens the interactive
	// record search.
	Mode string `envconfig:"ROLLCALL_MODE" default:"run"`

	Source SourceConfig
	Ingest IngestConfig
	Store  StoreConfig
	Output OutputConfig
}

// SourceConfig holds bulk source settings.
type SourceConfig struct {
	Format    string `envconfig:"ROLLCALL_SOURCE" default:"csv"`
	Path      string `envconfig:"ROLLCALL_SOURCE_PATH"`
	Delimiter string `envconfig:"ROLLCALL_SOURCE_DELIMITER"` // csv only: comma, tab, semicolon, pipe
}

// IngestConfig holds normalization and aggregation settings.
type IngestConfig struct {
	SchemaPath string `envconfig:"ROLLCALL_SCHEMA_PATH"` // YAML schema; blank selects the built-in schools schema
	OnError    string `envconfig:"ROLLCALL_ON_ERROR" default:"skip"`
	Metrics    string `envconfig:"ROLLCALL_METRICS"`     // name:kind:group[:value] list; blank selects the defaults
	DatasetKey string `envconfig:"ROLLCALL_DATASET_KEY"` // blank derives <file stem>-<run date>
}

// StoreConfig holds result store settings.
type StoreConfig struct {
	// Backends is a comma-separated backend list (memory, file, sqlite,
	// redis). More than one fans out through a multi store. Blank disables
	// persistence.
	Backends   string        `envconfig:"ROLLCALL_STORE"`
	FileRoot   string        `envconfig:"ROLLCALL_STORE_FILE_ROOT" default:"results"`
	SQLitePath string        `envconfig:"ROLLCALL_STORE_SQLITE_PATH" default:"rollcall.db"`
	RedisAddr  string        `envconfig:"ROLLCALL_STORE_REDIS_ADDR" default:"localhost:6379"`
	RedisTTL   time.Duration `envconfig:"ROLLCALL_STORE_REDIS_TTL" default:"0s"`
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	Format    string `envconfig:"ROLLCALL_OUTPUT" default:"text"`
	Pretty    bool   `envconfig:"ROLLCALL_OUTPUT_PRETTY" default:"false"`
	LookupKey string `envconfig:"ROLLCALL_LOOKUP_KEY"` // lookup mode: <dataset key>/<metric name>
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
