// Package jsonl reads exports with one JSON object per line, the shape most
// API dump tooling produces.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/source"
)

// maxLineSize bounds a single export line.
const maxLineSize = 1024 * 1024

func init() {
	source.Register("jsonl", func(cfg source.Config) source.Source {
		return &Source{cfg: cfg}
	})
}

// Source reads one JSON-lines file per pass. Blank lines are not units and
// are passed over silently; every other line must hold a flat JSON object.
type Source struct {
	cfg source.Config
}

func (s *Source) Open(ctx context.Context) (source.RecordReader, error) {
	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("jsonl source: %w: %w", model.ErrSourceUnavailable, err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return &reader{ctx: ctx, f: f, scan: sc}, nil
}

type reader struct {
	ctx  context.Context
	f    *os.File
	scan *bufio.Scanner
	seq  int64
}

func (r *reader) Next() (model.RawRecord, error) {
	if err := r.ctx.Err(); err != nil {
		return model.RawRecord{}, err
	}

	for r.scan.Scan() {
		line := bytes.TrimSpace(r.scan.Bytes())
		if len(line) == 0 {
			continue
		}
		r.seq++

		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return model.RawRecord{}, &model.MalformedRecordError{Seq: r.seq, Reason: "not a JSON object: " + err.Error()}
		}

		fields := make(map[string]string, len(obj))
		for k, v := range obj {
			if s, ok := scalar(v); ok {
				fields[strings.ToLower(k)] = s
			}
		}
		return model.RawRecord{Seq: r.seq, Source: "jsonl", Fields: fields}, nil
	}
	if err := r.scan.Err(); err != nil {
		return model.RawRecord{}, fmt.Errorf("jsonl source: read: %w", err)
	}
	return model.RawRecord{}, io.EOF
}

func (r *reader) Close() error {
	return r.f.Close()
}

// scalar renders a decoded JSON value as its raw field text. Nested arrays
// and objects have no place in a flat export and are dropped; whether that
// matters is the schema's call.
func scalar(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	case nil:
		return "", true
	default:
		return "", false
	}
}
