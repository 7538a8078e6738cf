// Package aggregate folds normalized record streams into keyed metric
// results.
package aggregate

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fieldhouse/rollcall/internal/model"
)

// Metric declares one reduction over the stream: group records by the value
// of GroupBy, then fold Value (or just count) per group.
type Metric struct {
	Name    string            // result name, unique within a run
	Kind    model.ReducerKind // count, sum, min or max
	GroupBy string            // normalized field whose value keys the table
	Value   string            // observed field; unused when Kind is count
}

// Validate checks a metric set for shape problems: duplicate names, unknown
// kinds, missing group fields, and value fields on the wrong kinds.
func Validate(metrics []Metric) error {
	if len(metrics) == 0 {
		return fmt.Errorf("aggregate: no metrics declared")
	}
	seen := make(map[string]bool, len(metrics))
	for _, m := range metrics {
		if m.Name == "" {
			return fmt.Errorf("aggregate: metric with no name")
		}
		if seen[m.Name] {
			return fmt.Errorf("aggregate: duplicate metric %q", m.Name)
		}
		seen[m.Name] = true
		if !m.Kind.Valid() {
			return fmt.Errorf("aggregate: metric %q: unknown reducer kind %q", m.Name, m.Kind)
		}
		if m.GroupBy == "" {
			return fmt.Errorf("aggregate: metric %q: no group-by field", m.Name)
		}
		if m.Kind == model.KindCount && m.Value != "" {
			return fmt.Errorf("aggregate: metric %q: count takes no value field", m.Name)
		}
		if m.Kind != model.KindCount && m.Value == "" {
			return fmt.Errorf("aggregate: metric %q: %s needs a value field", m.Name, m.Kind)
		}
	}
	return nil
}

// RecordStream is the lazy record sequence an Aggregator drains: Next until
// io.EOF.
type RecordStream interface {
	Next() (model.NormalizedRecord, error)
}

// Aggregator folds one stream into one MetricResult per declared metric.
// Each instance owns its running tables outright and starts empty; nothing
// carries over between instances or runs.
type Aggregator struct {
	metrics []Metric
	tables  []*model.MetricResult
	counted int64
	done    bool
}

// New creates an Aggregator with empty tables for the given metrics.
func New(metrics []Metric) (*Aggregator, error) {
	if err := Validate(metrics); err != nil {
		return nil, err
	}
	tables := make([]*model.MetricResult, len(metrics))
	for i, m := range metrics {
		tables[i] = model.NewMetricResult(m.Kind)
	}
	return &Aggregator{metrics: metrics, tables: tables}, nil
}

// Consume drains the stream exactly once and returns the final results in
// declaration order. Any error from the stream or a reduction ends the run
// and the partial tables are abandoned with the Aggregator.
func (a *Aggregator) Consume(stream RecordStream) ([]*model.MetricResult, error) {
	if a.done {
		return nil, fmt.Errorf("aggregate: stream already consumed")
	}
	a.done = true

	for {
		rec, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := a.observe(rec); err != nil {
			return nil, fmt.Errorf("aggregate: %w", err)
		}
	}
	return a.tables, nil
}

// Counted returns the records folded into the tables.
func (a *Aggregator) Counted() int64 { return a.counted }

// observe folds one record into every table.
func (a *Aggregator) observe(rec model.NormalizedRecord) error {
	for i, m := range a.metrics {
		key, ok := groupKey(rec[m.GroupBy])
		if !ok {
			return &model.ReducerError{Metric: m.Name, Field: m.GroupBy, Value: rec[m.GroupBy]}
		}
		if m.Kind == model.KindCount {
			a.tables[i].Observe(key, 1)
			continue
		}
		v, ok := rec.Number(m.Value)
		if !ok {
			return &model.ReducerError{Metric: m.Name, Field: m.Value, Value: rec[m.Value]}
		}
		a.tables[i].Observe(key, v)
	}
	a.counted++
	return nil
}

// groupKey renders a normalized scalar as a grouping key.
func groupKey(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
