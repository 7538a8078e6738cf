package model

// RawRecord is one unit pulled from a bulk source before normalization.
// Fields holds the unit's values keyed by lower-cased source column name;
// their meaning is source-specific until a schema normalizes them.
type RawRecord struct {
	Seq    int64             // 1-based position within the source
	Source string            // producing source name, e.g. "csv"
	Fields map[string]string // raw values keyed by column name
}

// NormalizedRecord is one record after schema normalization. Every record
// produced under the same schema carries exactly the same field names, and
// values are limited to string, int64 and float64.
type NormalizedRecord map[string]any

// Text returns the named field as a string. ok is false when the field is
// absent or holds a non-string value.
func (r NormalizedRecord) Text(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Number returns the named field as a float64. int64 values are widened.
// ok is false when the field is absent or not numeric.
func (r NormalizedRecord) Number(field string) (float64, bool) {
	switch v := r[field].(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
