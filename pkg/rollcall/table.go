package rollcall

import (
	"time"

	"github.com/fieldhouse/rollcall/internal/model"
)

// Report summarizes one counting run.
// This is the stable public type — internal representations may evolve
// independently without breaking consumers.
type Report struct {
	RunID      string        `json:"run_id"`     // unique per run
	Dataset    string        `json:"dataset"`    // derived from the file name
	RowsRead   int64         `json:"rows_read"`  // raw units pulled, malformed included
	Normalized int64         `json:"normalized"` // records that cleared the schema
	Skipped    int64         `json:"skipped"`    // malformed records dropped
	Duration   time.Duration `json:"duration"`
	Tables     []Table       `json:"tables"` // one per declared metric
}

// Table is one metric's keyed result, rows in first-occurrence order.
type Table struct {
	Name     string  `json:"name"`     // metric name, e.g. "schools_by_state"
	Kind     string  `json:"kind"`     // count, sum, min, max
	GroupBy  string  `json:"group_by"` // field the rows are keyed by
	Rows     []Row   `json:"rows"`
	Top      string  `json:"top,omitempty"` // key with the largest value
	TopValue float64 `json:"top_value,omitempty"`
	Total    float64 `json:"total"` // sum of row values
}

// Row is one key's folded value.
type Row struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// reportFromRun converts the internal run report to the public Report type.
func reportFromRun(rep *model.Report) Report {
	tables := make([]Table, len(rep.Metrics))
	for i, ms := range rep.Metrics {
		tables[i] = tableFromSummary(ms)
	}
	return Report{
		RunID:      rep.RunID,
		Dataset:    rep.DatasetKey,
		RowsRead:   rep.RowsRead,
		Normalized: rep.Normalized,
		Skipped:    rep.Skipped,
		Duration:   rep.Duration,
		Tables:     tables,
	}
}

func tableFromSummary(ms model.MetricSummary) Table {
	rows := make([]Row, 0, ms.Result.Len())
	for _, key := range ms.Result.Keys() {
		v, _ := ms.Result.Get(key)
		rows = append(rows, Row{Key: key, Value: v})
	}
	return Table{
		Name:     ms.Name,
		Kind:     string(ms.Kind),
		GroupBy:  ms.GroupBy,
		Rows:     rows,
		Top:      ms.TopKey,
		TopValue: ms.TopValue,
		Total:    ms.Result.Total(),
	}
}
