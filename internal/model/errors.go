package model

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable reports that a bulk source could not be opened at
// all: missing file, unreadable path, no header. It always ends the run.
// Wrap it with context and test with errors.Is.
var ErrSourceUnavailable = errors.New("source unavailable")

// MalformedRecordError reports a single raw unit that could not be framed
// or normalized. The ingest policy decides whether the unit is skipped and
// counted, or whether the run ends with this error.
type MalformedRecordError struct {
	Seq    int64  // position of the unit within the source
	Field  string // offending field, when known
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed record %d: %s", e.Seq, e.Reason)
	}
	return fmt.Sprintf("malformed record %d: field %q: %s", e.Seq, e.Field, e.Reason)
}

// ReducerError reports a reduction applied to a value it cannot consume,
// such as a sum over a non-numeric field. It always ends the run and the
// partial results are discarded.
type ReducerError struct {
	Metric string // metric whose reduction failed
	Field  string // field the value was read from
	Value  any    // the offending value
}

func (e *ReducerError) Error() string {
	return fmt.Sprintf("metric %q: cannot reduce field %q value %v", e.Metric, e.Field, e.Value)
}
