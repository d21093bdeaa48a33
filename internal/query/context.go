package query

import (
	"strings"
	"unicode"

	"github.com/phantomworx/cq-intel/internal/search"
)

// MatchContext returns an excerpt of content centered on the first term
// occurrence, expanded wordsAround real words to each side (whitespace
// tokens don't count), with ellipsis where the span is truncated.
//
// The second return is false when no term occurs in content at all; the
// match may still live in the entry's date label, in which case callers
// fall back to a plain preview.
func MatchContext(content string, terms []search.Term, wordsAround int) (string, bool) {
	if content == "" || len(terms) == 0 {
		return "", false
	}

	lower := strings.ToLower(content)
	firstMatch := -1
	for _, t := range terms {
		idx := strings.Index(lower, strings.ToLower(t.Term))
		if idx != -1 && (firstMatch == -1 || idx < firstMatch) {
			firstMatch = idx
		}
	}
	if firstMatch == -1 {
		return "", false
	}

	// Tokenize into alternating word and whitespace runs so character
	// offsets can be mapped back to a token.
	tokens := splitKeepSpace(content)

	matchToken := -1
	offset := 0
	for i, tok := range tokens {
		if offset <= firstMatch && firstMatch < offset+len(tok) {
			matchToken = i
			break
		}
		offset += len(tok)
	}
	if matchToken == -1 {
		return "", false
	}

	isWord := func(tok string) bool { return strings.TrimSpace(tok) != "" }

	start := matchToken
	for i, before := matchToken-1, 0; i >= 0 && before < wordsAround; i-- {
		if isWord(tokens[i]) {
			before++
			start = i
		}
	}

	end := matchToken
	for i, after := matchToken+1, 0; i < len(tokens) && after < wordsAround; i++ {
		if isWord(tokens[i]) {
			after++
			end = i
		}
	}

	excerpt := strings.TrimSpace(strings.Join(tokens[start:end+1], ""))
	if start > 0 {
		excerpt = "..." + excerpt
	}
	if end < len(tokens)-1 {
		excerpt = excerpt + "..."
	}

	return excerpt, true
}

// splitKeepSpace splits into maximal runs of whitespace and
// non-whitespace, preserving every byte of the input.
func splitKeepSpace(s string) []string {
	var tokens []string
	runStart := 0
	inSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			tokens = append(tokens, s[runStart:i])
			runStart = i
			inSpace = space
		}
	}
	if runStart < len(s) {
		tokens = append(tokens, s[runStart:])
	}
	return tokens
}
