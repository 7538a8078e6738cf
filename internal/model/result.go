package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// ReducerKind identifies the reduction a MetricResult was built with. Every
// kind folds commutatively and associatively, so partial results from split
// inputs can be merged in any order.
type ReducerKind string

const (
	KindCount ReducerKind = "count"
	KindSum   ReducerKind = "sum"
	KindMin   ReducerKind = "min"
	KindMax   ReducerKind = "max"
)

// Valid reports whether k names a known reducer kind.
func (k ReducerKind) Valid() bool {
	switch k {
	case KindCount, KindSum, KindMin, KindMax:
		return true
	}
	return false
}

// fold combines a key's running value with an incoming one.
func (k ReducerKind) fold(cur, in float64) float64 {
	switch k {
	case KindMin:
		if in < cur {
			return in
		}
		return cur
	case KindMax:
		if in > cur {
			return in
		}
		return cur
	default:
		// count merges by adding partial counts, same as sum.
		return cur + in
	}
}

// MetricResult maps grouping keys to reduced values. Keys are unique and
// iterate in first-observation order. Count results hold non-negative whole
// numbers.
type MetricResult struct {
	kind  ReducerKind
	order []string
	vals  map[string]float64
}

// NewMetricResult returns an empty result for the given reducer kind.
func NewMetricResult(kind ReducerKind) *MetricResult {
	return &MetricResult{
		kind: kind,
		vals: make(map[string]float64),
	}
}

// Kind returns the reducer kind the result was built with.
func (m *MetricResult) Kind() ReducerKind { return m.kind }

// Len returns the number of distinct keys.
func (m *MetricResult) Len() int { return len(m.order) }

// Keys returns the keys in first-observation order. The slice is a copy.
func (m *MetricResult) Keys() []string {
	keys := make([]string, len(m.order))
	copy(keys, m.order)
	return keys
}

// Get returns the value for key. ok is false when the key was never observed.
func (m *MetricResult) Get(key string) (float64, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Observe folds one observed value into the key's running value. New keys
// are appended to the iteration order. Count results observe 1 per record.
func (m *MetricResult) Observe(key string, v float64) {
	if cur, ok := m.vals[key]; ok {
		m.vals[key] = m.kind.fold(cur, v)
		return
	}
	m.order = append(m.order, key)
	m.vals[key] = v
}

// Merge folds every key of other into m. Both results must share a kind.
// The key order of m is preserved; keys only present in other are appended
// in other's order. other is left untouched.
func (m *MetricResult) Merge(other *MetricResult) error {
	if other == nil {
		return nil
	}
	if other.kind != m.kind {
		return fmt.Errorf("merge %s result into %s result", other.kind, m.kind)
	}
	for _, key := range other.order {
		m.Observe(key, other.vals[key])
	}
	return nil
}

// Total returns the sum of all values. For count results this equals the
// number of records observed.
func (m *MetricResult) Total() float64 {
	var t float64
	for _, v := range m.vals {
		t += v
	}
	return t
}

// Top returns the key with the highest value. Ties keep the earliest
// observed key. ok is false for an empty result.
func (m *MetricResult) Top() (key string, v float64, ok bool) {
	for _, k := range m.order {
		if !ok || m.vals[k] > v {
			key, v, ok = k, m.vals[k], true
		}
	}
	return key, v, ok
}

// Equal reports whether two results hold the same kind and the same
// key-value pairs, regardless of observation order.
func (m *MetricResult) Equal(other *MetricResult) bool {
	if other == nil || m.kind != other.kind || len(m.vals) != len(other.vals) {
		return false
	}
	for k, v := range m.vals {
		ov, ok := other.vals[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of m.
func (m *MetricResult) Clone() *MetricResult {
	c := NewMetricResult(m.kind)
	c.order = make([]string, len(m.order))
	copy(c.order, m.order)
	for k, v := range m.vals {
		c.vals[k] = v
	}
	return c
}

type resultJSON struct {
	Kind   ReducerKind  `json:"kind"`
	Values []resultPair `json:"values"`
}

type resultPair struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// MarshalJSON encodes the result with its key order intact, so a store
// round-trip reproduces the original iteration order.
func (m *MetricResult) MarshalJSON() ([]byte, error) {
	out := resultJSON{Kind: m.kind, Values: make([]resultPair, 0, len(m.order))}
	for _, k := range m.order {
		out.Values = append(out.Values, resultPair{Key: k, Value: m.vals[k]})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a result produced by MarshalJSON, rejecting unknown
// kinds, duplicate keys and count values that are not whole non-negative
// numbers.
func (m *MetricResult) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Kind.Valid() {
		return fmt.Errorf("unknown reducer kind %q", in.Kind)
	}
	vals := make(map[string]float64, len(in.Values))
	order := make([]string, 0, len(in.Values))
	for _, p := range in.Values {
		if _, dup := vals[p.Key]; dup {
			return fmt.Errorf("duplicate key %q", p.Key)
		}
		if in.Kind == KindCount && (p.Value < 0 || p.Value != math.Trunc(p.Value)) {
			return fmt.Errorf("count for key %q is not a whole non-negative number: %v", p.Key, p.Value)
		}
		vals[p.Key] = p.Value
		order = append(order, p.Key)
	}
	m.kind = in.Kind
	m.order = order
	m.vals = vals
	return nil
}
