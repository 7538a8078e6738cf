// Package report renders a finished run for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fieldhouse/rollcall/internal/model"
)

// Format selects the report rendering.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// ParseFormat maps a configured format name to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch Format(s) {
	case JSON:
		return JSON
	default:
		return Text
	}
}

// maxKeys bounds how many rows a table prints in text mode. JSON always
// carries everything.
const maxKeys = 25

// Render writes the report in the given format. pretty only affects JSON.
func Render(w io.Writer, rep *model.Report, format Format, pretty bool) error {
	if format == JSON {
		enc := json.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("report: encode: %w", err)
		}
		return nil
	}
	return renderText(w, rep)
}

func renderText(w io.Writer, rep *model.Report) error {
	fmt.Fprintf(w, "Dataset: %s (run %s)\n", rep.DatasetKey, rep.RunID)
	if rep.Path != "" {
		fmt.Fprintf(w, "Source: %s %s\n", rep.Source, rep.Path)
	} else {
		fmt.Fprintf(w, "Source: %s\n", rep.Source)
	}
	fmt.Fprintf(w, "Rows read: %d, normalized: %d, skipped: %d\n",
		rep.RowsRead, rep.Normalized, rep.Skipped)
	fmt.Fprintf(w, "Duration: %s\n", rep.Duration.Round(time.Millisecond))

	for _, m := range rep.Metrics {
		fmt.Fprintf(w, "\n%s (%s by %s):\n", m.Name, m.Kind, m.GroupBy)
		keys := m.Result.Keys()
		shown := keys
		if len(shown) > maxKeys {
			shown = shown[:maxKeys]
		}
		for _, k := range shown {
			v, _ := m.Result.Get(k)
			fmt.Fprintf(w, "%s: %s\n", k, formatValue(v))
		}
		if extra := len(keys) - len(shown); extra > 0 {
			fmt.Fprintf(w, "... (+%d more keys)\n", extra)
		}
		if m.TopKey != "" {
			fmt.Fprintf(w, "Top %s: %s (%s)\n", m.GroupBy, m.TopKey, formatValue(m.TopValue))
		}
		fmt.Fprintf(w, "Unique %s values: %d\n", m.GroupBy, m.UniqueKeys)
	}

	_, err := fmt.Fprintf(w, "\nTotal records: %d\n", rep.Normalized)
	return err
}

// formatValue prints counts as whole numbers and everything else with only
// the digits it needs.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
