// Package csvfile reads delimited export files with a header row.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/source"
)

func init() {
	source.Register("csv", func(cfg source.Config) source.Source {
		return &Source{cfg: cfg}
	})
}

// Source reads one delimited file per pass. The first row names the
// columns; every later row becomes one raw unit keyed by those names.
type Source struct {
	cfg source.Config
}

// Open opens the file and consumes the header row. Column names are
// trimmed and lower-cased so schema columns match regardless of the
// export's casing.
func (s *Source) Open(ctx context.Context) (source.RecordReader, error) {
	comma, err := delimiter(s.cfg.Extra["delimiter"])
	if err != nil {
		return nil, fmt.Errorf("csv source: %w: %w", model.ErrSourceUnavailable, err)
	}

	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("csv source: %w: %w", model.ErrSourceUnavailable, err)
	}

	cr := csv.NewReader(f)
	cr.Comma = comma

	header, err := cr.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("csv source: %w: %s has no header row", model.ErrSourceUnavailable, s.cfg.Path)
		}
		return nil, fmt.Errorf("csv source: %w: read header: %w", model.ErrSourceUnavailable, err)
	}
	for i, name := range header {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}

	return &reader{ctx: ctx, f: f, csv: cr, header: header}, nil
}

type reader struct {
	ctx    context.Context
	f      *os.File
	csv    *csv.Reader
	header []string
	seq    int64
}

func (r *reader) Next() (model.RawRecord, error) {
	if err := r.ctx.Err(); err != nil {
		return model.RawRecord{}, err
	}

	row, err := r.csv.Read()
	if err == io.EOF {
		return model.RawRecord{}, io.EOF
	}
	r.seq++
	if err != nil {
		// Field-count and quoting errors are per-row; the reader stays
		// usable for the rows that follow.
		return model.RawRecord{}, &model.MalformedRecordError{Seq: r.seq, Reason: err.Error()}
	}

	fields := make(map[string]string, len(r.header))
	for i, name := range r.header {
		if i < len(row) {
			fields[name] = row[i]
		}
	}
	return model.RawRecord{Seq: r.seq, Source: "csv", Fields: fields}, nil
}

func (r *reader) Close() error {
	return r.f.Close()
}

// delimiter maps the configured delimiter name to its rune. Blank selects
// the comma.
func delimiter(name string) (rune, error) {
	switch name {
	case "", "comma":
		return ',', nil
	case "tab", "\t":
		return '\t', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unknown delimiter %q", name)
	}
}
