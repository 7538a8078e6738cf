package model

import "time"

// Report is the envelope for one completed pipeline run. The metric results
// inside it are what a store persists; the report itself is display output.
type Report struct {
	RunID      string        `json:"run_id"`
	DatasetKey string        `json:"dataset_key"`
	Source     string        `json:"source"`
	Path       string        `json:"path,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`

	RowsRead   int64 `json:"rows_read"`  // raw units pulled, malformed included
	Normalized int64 `json:"normalized"` // records that cleared the schema
	Skipped    int64 `json:"skipped"`    // malformed units dropped under the skip policy

	Metrics []MetricSummary `json:"metrics"`
}

// MetricSummary pairs a declared metric with its final result and the
// derived facts a report renders.
type MetricSummary struct {
	Name       string        `json:"name"`
	Kind       ReducerKind   `json:"kind"`
	GroupBy    string        `json:"group_by"`
	Result     *MetricResult `json:"result"`
	UniqueKeys int           `json:"unique_keys"`
	TopKey     string        `json:"top_key,omitempty"`
	TopValue   float64       `json:"top_value,omitempty"`
}

// Summarize builds the summary for one finished metric.
func Summarize(name, groupBy string, res *MetricResult) MetricSummary {
	s := MetricSummary{
		Name:       name,
		Kind:       res.Kind(),
		GroupBy:    groupBy,
		Result:     res,
		UniqueKeys: res.Len(),
	}
	if key, v, ok := res.Top(); ok {
		s.TopKey, s.TopValue = key, v
	}
	return s
}
