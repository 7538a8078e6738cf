package aggregate

import (
	"fmt"
	"strings"

	"github.com/fieldhouse/rollcall/internal/model"
)

// DefaultMetrics returns the count tables for the built-in school directory
// schema: schools per state, city, locale class and operating status.
func DefaultMetrics() []Metric {
	return []Metric{
		{Name: "schools_by_state", Kind: model.KindCount, GroupBy: "state"},
		{Name: "schools_by_city", Kind: model.KindCount, GroupBy: "city"},
		{Name: "schools_by_locale", Kind: model.KindCount, GroupBy: "locale"},
		{Name: "schools_by_urban_locale", Kind: model.KindCount, GroupBy: "urban_locale"},
		{Name: "schools_by_status", Kind: model.KindCount, GroupBy: "status"},
	}
}

// ParseMetrics reads a comma-separated metric list of the form
// name:kind:group or name:kind:group:value, e.g.
//
//	by_state:count:state  counts records per state value
//	lat_max:max:state:lat keeps the highest lat seen per state
func ParseMetrics(spec string) ([]Metric, error) {
	var metrics []Metric
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("aggregate: metric %q: want name:kind:group[:value]", entry)
		}
		m := Metric{
			Name:    strings.TrimSpace(parts[0]),
			Kind:    model.ReducerKind(strings.TrimSpace(parts[1])),
			GroupBy: strings.TrimSpace(parts[2]),
		}
		if len(parts) == 4 {
			m.Value = strings.TrimSpace(parts[3])
		}
		metrics = append(metrics, m)
	}
	if err := Validate(metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}
