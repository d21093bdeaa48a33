package query

import (
	"sort"

	"github.com/phantomworx/cq-intel/internal/entry"
	"github.com/phantomworx/cq-intel/internal/search"
)

// Scope controls which entries a search runs over.
type Scope string

const (
	// ScopeFiltered searches within the current date range.
	ScopeFiltered Scope = "filtered"
	// ScopeAll searches the full entry set, ignoring the date range.
	ScopeAll Scope = "all"
)

// Order is the result sort direction.
type Order string

const (
	OrderNewest Order = "newest"
	OrderOldest Order = "oldest"
)

// Options are the filter settings applied by Run.
type Options struct {
	Range DateRange
	Terms []search.Term
	Scope Scope
	Sort  Order
}

// Run produces the visible result list: scope resolution, date filter,
// search filter, then a stable sort. The input slice is never mutated.
func Run(entries []entry.Entry, opts Options) []entry.Entry {
	results := make([]entry.Entry, 0, len(entries))
	for _, e := range candidates(entries, opts) {
		if len(opts.Terms) == 0 || search.MatchesAny(searchableText(e), opts.Terms) {
			results = append(results, e)
		}
	}
	sortEntries(results, opts.Sort)
	return results
}

// TotalCandidates counts the candidate base the search ran over, for
// "N of M" reporting.
func TotalCandidates(entries []entry.Entry, opts Options) int {
	return len(candidates(entries, opts))
}

// candidates resolves the search scope: an active search with scope
// "all" ignores the date filter; everything else filters by range.
// Entries with a nil date always pass the date filter.
func candidates(entries []entry.Entry, opts Options) []entry.Entry {
	if len(opts.Terms) > 0 && opts.Scope == ScopeAll {
		return entries
	}
	if opts.Range.IsEmpty() {
		return entries
	}

	in := make([]entry.Entry, 0, len(entries))
	for _, e := range entries {
		if opts.Range.Contains(e.Date) {
			in = append(in, e)
		}
	}
	return in
}

// searchableText is what terms match against: content plus the raw date
// label, so queries like "march 2024" hit entries by their labels too.
func searchableText(e entry.Entry) string {
	return e.Content + " " + e.DateText
}

// sortEntries stable-sorts by date. Entries without a resolved date sort
// to the end regardless of direction.
func sortEntries(entries []entry.Entry, order Order) {
	oldest := order == OrderOldest
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].Date, entries[j].Date
		if di == nil || dj == nil {
			return di != nil && dj == nil
		}
		if oldest {
			return di.Before(*dj)
		}
		return dj.Before(*di)
	})
}
