package rollcall

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fieldhouse/rollcall/internal/aggregate"
	"github.com/fieldhouse/rollcall/internal/ingest"
	"github.com/fieldhouse/rollcall/internal/pipeline"
	"github.com/fieldhouse/rollcall/internal/schema"
	"github.com/fieldhouse/rollcall/internal/source"

	// Register source formats.
	_ "github.com/fieldhouse/rollcall/internal/source/csvfile"
	_ "github.com/fieldhouse/rollcall/internal/source/jsonl"
)

// Rollcall counts and searches records in bulk file exports.
// Safe for concurrent use.
type Rollcall struct {
	schema    *schema.Schema
	metrics   []aggregate.Metric
	policy    ingest.Policy
	format    string
	delimiter string
	log       *zap.Logger
}

// New creates a Rollcall instance, resolving the schema, metrics and source
// format up front so a misconfigured instance fails here rather than midway
// through a file.
func New(opts ...Option) (*Rollcall, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sc := schema.Default()
	if o.schemaPath != "" {
		loaded, err := schema.Load(o.schemaPath)
		if err != nil {
			return nil, fmt.Errorf("rollcall: %w", err)
		}
		sc = loaded
	}

	metrics := aggregate.DefaultMetrics()
	if o.metrics != "" {
		parsed, err := aggregate.ParseMetrics(o.metrics)
		if err != nil {
			return nil, fmt.Errorf("rollcall: %w", err)
		}
		metrics = parsed
	}

	policy, err := ingest.ParsePolicy(o.onError)
	if err != nil {
		return nil, fmt.Errorf("rollcall: %w", err)
	}

	if _, err := source.Get(o.format); err != nil {
		return nil, fmt.Errorf("rollcall: %w", err)
	}

	log := o.logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Rollcall{
		schema:    sc,
		metrics:   metrics,
		policy:    policy,
		format:    o.format,
		delimiter: o.delimiter,
		log:       log,
	}, nil
}

// Count runs one counting pass over the file at path and reports the
// results. Metrics that name fields outside the schema fail here, before
// any data is read.
func (r *Rollcall) Count(ctx context.Context, path string) (Report, error) {
	src, err := r.source(path)
	if err != nil {
		return Report{}, err
	}

	ing := ingest.New(r.schema, r.policy, r.log)
	p, err := pipeline.New(src, ing, r.metrics, r.log,
		pipeline.WithDatasetKey(datasetStem(path)),
		pipeline.WithSourceInfo(r.format, path))
	if err != nil {
		return Report{}, err
	}

	rep, err := p.Run(ctx)
	if err != nil {
		return Report{}, err
	}
	return reportFromRun(rep), nil
}

// source builds a fresh Source for one pass over path.
func (r *Rollcall) source(path string) (source.Source, error) {
	ctor, err := source.Get(r.format)
	if err != nil {
		return nil, err
	}
	cfg := source.Config{Path: path}
	if r.delimiter != "" {
		cfg.Extra = map[string]string{"delimiter": r.delimiter}
	}
	return ctor(cfg), nil
}

// datasetStem derives the report's dataset key from the file name.
func datasetStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
