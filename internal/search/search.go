// Package search parses free-text queries into match terms and provides
// a memoized highlighter for rendering matches.
//
// Double-quoted substrings become exact-phrase terms, the remainder is
// split into keyword terms. Both kinds currently match the same way
// (case-insensitive substring); the distinction is parsed and carried so
// callers can render quoted phrases differently.
package search

import (
	"regexp"
	"strings"
)

// Term is one parsed search term. Exact marks a quoted phrase.
type Term struct {
	Term  string `json:"term"`
	Exact bool   `json:"is_exact"`
}

var quotedPhraseRe = regexp.MustCompile(`"([^"]+)"`)

// Parse splits a query into terms: quoted phrases first (in order of
// appearance, quotes stripped, empty phrases discarded), then the
// remaining whitespace-separated keywords. An empty or whitespace-only
// query yields no terms, which downstream treats as "no active search".
func Parse(query string) []Term {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var terms []Term
	for _, m := range quotedPhraseRe.FindAllStringSubmatch(query, -1) {
		phrase := strings.TrimSpace(m[1])
		if phrase != "" {
			terms = append(terms, Term{Term: phrase, Exact: true})
		}
	}

	remainder := quotedPhraseRe.ReplaceAllString(query, " ")
	for _, keyword := range strings.Fields(remainder) {
		terms = append(terms, Term{Term: keyword, Exact: false})
	}

	return terms
}

// MatchesAny reports whether any term occurs in the text,
// case-insensitively. Exact and keyword terms use the same substring
// semantics. No terms means no match.
func MatchesAny(text string, terms []Term) bool {
	if len(terms) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lower, strings.ToLower(t.Term)) {
			return true
		}
	}
	return false
}
