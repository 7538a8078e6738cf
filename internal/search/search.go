// Package search provides interactive lookup over the searchable fields of
// normalized records: type a few words, get back the closest entries.
package search

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/fieldhouse/rollcall/internal/model"
)

// maxResults is how many entries a search returns.
const maxResults = 3

// Index holds one searchable term string per record. Matching is substring
// containment per query word over the folded term, so partial words narrow
// the candidates too.
type Index struct {
	fields  []string
	entries []entry
}

type entry struct {
	terms   string // folded searchable text
	display string // original-case values, comma separated
}

// NewIndex creates an index over the given searchable fields.
func NewIndex(fields []string) (*Index, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("search: no searchable fields declared")
	}
	return &Index{fields: fields}, nil
}

// Add indexes one record.
func (ix *Index) Add(rec model.NormalizedRecord) {
	parts := make([]string, 0, len(ix.fields))
	for _, f := range ix.fields {
		if v := render(rec[f]); v != "" {
			parts = append(parts, v)
		}
	}
	ix.entries = append(ix.entries, entry{
		terms:   Fold(strings.Join(parts, " ")),
		display: strings.Join(parts, ", "),
	})
}

// Len returns the number of indexed records.
func (ix *Index) Len() int { return len(ix.entries) }

// Search returns up to three display strings for the phrase, applying words
// left to right. A word that matches nothing is passed over, and once the
// candidates narrow to three or fewer the remaining words are skipped. When
// a later word over-narrows the list, next-best candidates from the prior
// word top it back up.
func (ix *Index) Search(phrase string) []string {
	words := strings.Fields(Fold(phrase))
	if len(words) == 0 {
		return nil
	}
	all := make([]int, len(ix.entries))
	for i := range all {
		all[i] = i
	}

	out := make([]string, 0, maxResults)
	for _, idx := range ix.match(words, all) {
		out = append(out, ix.entries[idx].display)
	}
	return out
}

// match narrows the candidate set one word at a time.
func (ix *Index) match(words []string, options []int) []int {
	if len(words) == 0 {
		return options
	}

	var remaining []int
	for _, idx := range options {
		if strings.Contains(ix.entries[idx].terms, words[0]) {
			remaining = append(remaining, idx)
		}
	}

	if len(remaining) == 0 {
		if len(words) > 1 {
			// Nothing has this word; skip it and try the rest.
			return ix.match(words[1:], options)
		}
		return cap3(options)
	}
	if len(words) == 1 {
		return cap3(remaining)
	}
	if len(remaining) <= maxResults {
		return remaining
	}

	results := ix.match(words[1:], remaining)
	// A later word may have narrowed below three; fill with the next-best
	// candidates from this level.
	for i := len(remaining) - 1; i >= 0 && len(results) < maxResults; i-- {
		if !contains(results, remaining[i]) {
			results = append(results, remaining[i])
		}
	}
	return results
}

func cap3(options []int) []int {
	if len(options) > maxResults {
		return options[:maxResults]
	}
	return options
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Fold lower-cases s and strips combining marks, so "Española" and
// "espanola" meet in the middle.
func Fold(s string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// render turns a normalized scalar into display text.
func render(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
