package rollcall

import (
	"context"
	"errors"
	"io"

	"github.com/fieldhouse/rollcall/internal/ingest"
	"github.com/fieldhouse/rollcall/internal/search"
)

// Searcher answers lookups over one ingested file. Build it once per file;
// queries run against an in-memory index.
type Searcher struct {
	ix      *search.Index
	skipped int64
}

// Searcher ingests the file at path into an index over the schema's
// searchable fields.
func (r *Rollcall) Searcher(ctx context.Context, path string) (*Searcher, error) {
	src, err := r.source(path)
	if err != nil {
		return nil, err
	}

	ix, err := search.NewIndex(r.schema.Searchable)
	if err != nil {
		return nil, err
	}

	stream, err := ingest.New(r.schema, r.policy, r.log).Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	for {
		rec, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		ix.Add(rec)
	}

	return &Searcher{ix: ix, skipped: stream.Skipped()}, nil
}

// Query returns up to three matching records as display strings, matching
// case- and accent-insensitively on whole words.
func (s *Searcher) Query(phrase string) []string {
	return s.ix.Search(phrase)
}

// Len returns the number of indexed records.
func (s *Searcher) Len() int { return s.ix.Len() }

// Skipped returns the number of malformed records dropped while indexing.
func (s *Searcher) Skipped() int64 { return s.skipped }
