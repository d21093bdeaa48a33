package search

import (
	"regexp"
	"strings"
)

// Highlighter wraps term occurrences in text for rendering. The compiled
// alternation pattern is memoized against the current term-list snapshot
// and rebuilt only when the terms change.
type Highlighter struct {
	pattern  *regexp.Regexp
	cacheKey string
}

// NewHighlighter returns an empty highlighter; the first SetTerms call
// compiles the pattern.
func NewHighlighter() *Highlighter {
	return &Highlighter{}
}

// SetTerms updates the active terms, recompiling the pattern on a cache
// miss. An empty term list disables highlighting.
func (h *Highlighter) SetTerms(terms []Term) {
	key := termsKey(terms)
	if key == h.cacheKey {
		return
	}
	h.cacheKey = key

	if len(terms) == 0 {
		h.pattern = nil
		return
	}

	escaped := make([]string, len(terms))
	for i, t := range terms {
		escaped[i] = regexp.QuoteMeta(t.Term)
	}
	h.pattern = regexp.MustCompile(`(?i)(` + strings.Join(escaped, "|") + `)`)
}

// Wrap surrounds every term occurrence in text with left and right.
// With no active terms the text is returned unchanged.
func (h *Highlighter) Wrap(text, left, right string) string {
	if h.pattern == nil {
		return text
	}
	return h.pattern.ReplaceAllString(text, left+"$1"+right)
}

func termsKey(terms []Term) string {
	var b strings.Builder
	for _, t := range terms {
		b.WriteString(t.Term)
		if t.Exact {
			b.WriteString("\x00e|")
		} else {
			b.WriteString("\x00k|")
		}
	}
	return b.String()
}
