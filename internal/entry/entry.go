package entry

import (
	"regexp"
	"strings"
	"time"
)

// Entry represents one extracted comment record.
// Date is nil when the date label could not be resolved.
// The JSON field names are the persisted cache wire format.
type Entry struct {
	DateText string     `json:"dateText"`
	Date     *time.Time `json:"date"`
	Content  string     `json:"content"`
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses runs of whitespace to single spaces and
// trims the result.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
