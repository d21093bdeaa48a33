package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/phantomworx/cq-intel/internal/entry"
	"github.com/phantomworx/cq-intel/internal/fetch"
	"github.com/phantomworx/cq-intel/internal/query"
	"github.com/phantomworx/cq-intel/internal/search"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Preview sizing mirrors what the result cards show: the first few
// lines, capped.
const (
	previewLines     = 3
	previewMaxLength = 260
)

// Result contains the data rendered by WriteOutput.
type Result struct {
	Entries     []entry.Entry `json:"entries"`
	Total       int           `json:"total"`
	Terms       []search.Term `json:"terms,omitempty"`
	Source      fetch.Source  `json:"source"`
	WordsAround int           `json:"-"`
}

// Searching reports whether a search is active.
func (r *Result) Searching() bool {
	return len(r.Terms) > 0
}

// WriteOutput writes the result in the specified format.
func WriteOutput(w io.Writer, result *Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, result *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		*Result
		Count int `json:"count"`
	}{Result: result, Count: len(result.Entries)})
}

func writeText(w io.Writer, result *Result) error {
	if result.Searching() {
		fmt.Fprintf(w, "%d of %d comments match your search.\n", len(result.Entries), result.Total)
	} else {
		fmt.Fprintf(w, "%d entries loaded.\n", len(result.Entries))
	}
	if result.Source == fetch.SourceStaleCache {
		fmt.Fprintln(w, "(showing cached copy)")
	}

	if len(result.Entries) == 0 {
		if result.Searching() {
			fmt.Fprintln(w, "\nNo comments match your search terms.")
		} else {
			fmt.Fprintln(w, "\nNo entries match the selected date range.")
		}
		return nil
	}

	highlighter := search.NewHighlighter()
	highlighter.SetTerms(result.Terms)

	for _, en := range result.Entries {
		label := en.DateText
		if label == "" {
			label = "Unknown date"
		}
		fmt.Fprintf(w, "\n%s\n", label)

		text := previewText(en, result)
		if result.Searching() {
			text = highlighter.Wrap(text, "\x1b[1;33m", "\x1b[0m")
		}
		for _, line := range strings.Split(text, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d\n", len(result.Entries))
	return nil
}

// previewText picks what to show for one entry: the context excerpt
// around the first match when searching, otherwise the first few lines.
// A search that only hit the date label falls back to the plain preview.
func previewText(en entry.Entry, result *Result) string {
	if result.Searching() {
		if excerpt, ok := query.MatchContext(en.Content, result.Terms, result.WordsAround); ok {
			return excerpt
		}
	}

	lines := strings.Split(en.Content, "\n")
	if len(lines) > previewLines {
		lines = lines[:previewLines]
	}
	preview := strings.Join(lines, "\n")
	if len(preview) > previewMaxLength {
		preview = strings.TrimSpace(preview[:previewMaxLength]) + "…"
	}
	return preview
}
