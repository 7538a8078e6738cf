package search

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompt runs the interactive search loop: read a phrase, print up to three
// hits, repeat. A blank line is ignored and "q" quits. Returns once input
// ends or the quit command arrives.
func Prompt(r io.Reader, w io.Writer, ix *Index) error {
	fmt.Fprintf(w, "Search ready over %d records. Type q to quit. Matching is not case sensitive.\n", ix.Len())

	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "Enter search term: ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}
		phrase := strings.TrimSpace(scanner.Text())
		if phrase == "" {
			continue
		}
		if strings.EqualFold(phrase, "q") {
			return nil
		}
		results := ix.Search(phrase)
		if len(results) == 0 {
			fmt.Fprintln(w, "no matches")
			continue
		}
		for i, hit := range results {
			fmt.Fprintf(w, "%d: %s\n", i, hit)
		}
	}
}
