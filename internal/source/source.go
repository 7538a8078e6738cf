package source

import (
	"context"

	"github.com/fieldhouse/rollcall/internal/model"
)

// Source defines the interface all bulk record sources must implement.
type Source interface {
	// Open prepares one finite pass over the export. The returned reader is
	// one-shot: restarting a run means calling Open again. A source that
	// cannot be opened reports model.ErrSourceUnavailable.
	Open(ctx context.Context) (RecordReader, error)
}

// RecordReader yields raw units one at a time.
type RecordReader interface {
	// Next returns the next raw unit. It returns io.EOF once the source is
	// exhausted, and *model.MalformedRecordError for units the source can
	// position but not frame. Framing errors do not end the pass; callers
	// may keep reading.
	Next() (model.RawRecord, error)

	// Close releases whatever Open acquired.
	Close() error
}

// Config holds source-specific settings.
type Config struct {
	Path  string            // file to read
	Extra map[string]string // per-source settings, e.g. "delimiter"
}
