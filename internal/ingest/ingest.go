// Package ingest turns bulk sources into lazy streams of normalized records.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/schema"
	"github.com/fieldhouse/rollcall/internal/source"
)

// Policy selects how ingestion responds to a malformed unit.
type Policy string

const (
	// Skip drops the unit, counts it, logs it and keeps reading.
	Skip Policy = "skip"
	// Abort ends the run with the malformed record error.
	Abort Policy = "abort"
)

// ParsePolicy maps a configured policy name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case Skip, "":
		return Skip, nil
	case Abort:
		return Abort, nil
	default:
		return "", fmt.Errorf("unknown on-error policy %q", s)
	}
}

// Ingestor opens sources and normalizes their units against one schema.
type Ingestor struct {
	schema *schema.Schema
	policy Policy
	log    *zap.Logger
}

// New creates an Ingestor for the given schema and malformed-unit policy.
func New(sc *schema.Schema, policy Policy, log *zap.Logger) *Ingestor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{schema: sc, policy: policy, log: log}
}

// Schema returns the schema records are normalized against.
func (ing *Ingestor) Schema() *schema.Schema { return ing.schema }

// Open opens the source and returns the lazy record stream over it. Source
// failures pass through carrying model.ErrSourceUnavailable.
func (ing *Ingestor) Open(ctx context.Context, src source.Source) (*Stream, error) {
	r, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	return &Stream{r: r, schema: ing.schema, policy: ing.policy, log: ing.log}, nil
}

// Stream is a one-shot sequence of normalized records. Records materialize
// one at a time as Next is called; nothing is buffered beyond the unit in
// flight.
type Stream struct {
	r      source.RecordReader
	schema *schema.Schema
	policy Policy
	log    *zap.Logger

	read    int64
	skipped int64
	done    bool
}

// Next returns the next normalized record, io.EOF at the end of the source,
// or the error that ended the stream. Once a terminal state is reached every
// later call reports io.EOF.
func (s *Stream) Next() (model.NormalizedRecord, error) {
	if s.done {
		return nil, io.EOF
	}
	for {
		raw, err := s.r.Next()
		if err == io.EOF {
			s.done = true
			return nil, io.EOF
		}
		s.read++
		if err != nil {
			if !s.skippable(err) {
				s.done = true
				return nil, fmt.Errorf("ingest: %w", err)
			}
			continue
		}

		rec, err := s.schema.Normalize(raw)
		if err != nil {
			if !s.skippable(err) {
				s.done = true
				return nil, fmt.Errorf("ingest: %w", err)
			}
			continue
		}
		return rec, nil
	}
}

// skippable counts and logs a malformed unit under the skip policy. Any
// other error, and every error under the abort policy, ends the run.
func (s *Stream) skippable(err error) bool {
	var malformed *model.MalformedRecordError
	if s.policy != Skip || !errors.As(err, &malformed) {
		return false
	}
	s.skipped++
	s.log.Warn("skipping malformed record",
		zap.Int64("seq", malformed.Seq),
		zap.String("field", malformed.Field),
		zap.String("reason", malformed.Reason),
	)
	return true
}

// RowsRead returns the raw units pulled so far, malformed ones included.
func (s *Stream) RowsRead() int64 { return s.read }

// Skipped returns the malformed units dropped so far.
func (s *Stream) Skipped() int64 { return s.skipped }

// Close releases the underlying source reader.
func (s *Stream) Close() error {
	return s.r.Close()
}
