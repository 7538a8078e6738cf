// Package pipeline connects a source, an ingestor and an aggregation pass
// into one batch run, with optional persistence of the results.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldhouse/rollcall/internal/aggregate"
	"github.com/fieldhouse/rollcall/internal/ingest"
	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/source"
	"github.com/fieldhouse/rollcall/internal/store"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore persists every metric result once a run succeeds. Without it,
// results only live in the returned report.
func WithStore(st store.Store) Option {
	return func(p *Pipeline) { p.store = st }
}

// WithDatasetKey sets the key prefix results are stored and reported under.
// Default: "dataset".
func WithDatasetKey(key string) Option {
	return func(p *Pipeline) { p.datasetKey = key }
}

// WithSourceInfo names the source in the report.
func WithSourceInfo(name, path string) Option {
	return func(p *Pipeline) { p.sourceName, p.sourcePath = name, path }
}

// Pipeline runs the whole pass: open the source, normalize each unit, fold
// it into every declared metric, then persist and report.
type Pipeline struct {
	src     source.Source
	ing     *ingest.Ingestor
	metrics []aggregate.Metric
	log     *zap.Logger

	store      store.Store
	datasetKey string
	sourceName string
	sourcePath string
}

// New creates a Pipeline and validates the metric declarations against the
// ingestor's schema, so a misdeclared run fails before any data is read.
func New(src source.Source, ing *ingest.Ingestor, metrics []aggregate.Metric, log *zap.Logger, opts ...Option) (*Pipeline, error) {
	if err := aggregate.Validate(metrics); err != nil {
		return nil, err
	}
	sc := ing.Schema()
	for _, m := range metrics {
		if !sc.HasField(m.GroupBy) {
			return nil, fmt.Errorf("pipeline: metric %q groups by %q, not in schema %q", m.Name, m.GroupBy, sc.Name)
		}
		if m.Value != "" && !sc.HasField(m.Value) {
			return nil, fmt.Errorf("pipeline: metric %q reads %q, not in schema %q", m.Name, m.Value, sc.Name)
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{
		src:        src,
		ing:        ing,
		metrics:    metrics,
		log:        log,
		datasetKey: "dataset",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes one complete pass and returns its report. On any error the
// partial tables are discarded and nothing reaches the store; the Pipeline
// itself stays reusable, so a failed run can simply be started again.
func (p *Pipeline) Run(ctx context.Context) (*model.Report, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := p.log.With(zap.String("run_id", runID), zap.String("dataset", p.datasetKey))
	log.Info("starting run",
		zap.String("source", p.sourceName),
		zap.Int("metrics", len(p.metrics)),
	)

	stream, err := p.ing.Open(ctx, p.src)
	if err != nil {
		return nil, fmt.Errorf("pipeline run: %w", err)
	}
	defer stream.Close()

	agg, err := aggregate.New(p.metrics)
	if err != nil {
		return nil, fmt.Errorf("pipeline run: %w", err)
	}
	results, err := agg.Consume(stream)
	if err != nil {
		return nil, fmt.Errorf("pipeline run: %w", err)
	}

	rep := &model.Report{
		RunID:      runID,
		DatasetKey: p.datasetKey,
		Source:     p.sourceName,
		Path:       p.sourcePath,
		StartedAt:  started,
		RowsRead:   stream.RowsRead(),
		Normalized: agg.Counted(),
		Skipped:    stream.Skipped(),
	}
	for i, m := range p.metrics {
		rep.Metrics = append(rep.Metrics, model.Summarize(m.Name, m.GroupBy, results[i]))
	}

	if p.store != nil {
		for i, m := range p.metrics {
			key := store.Key(p.datasetKey, m.Name)
			if err := p.store.Put(ctx, key, results[i]); err != nil {
				return nil, fmt.Errorf("pipeline store: %w", err)
			}
			log.Debug("stored result", zap.String("key", key))
		}
	}

	rep.Duration = time.Since(started)
	log.Info("run complete",
		zap.Int64("rows_read", rep.RowsRead),
		zap.Int64("normalized", rep.Normalized),
		zap.Int64("skipped", rep.Skipped),
		zap.Duration("duration", rep.Duration),
	)
	return rep, nil
}
