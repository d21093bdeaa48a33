package entry

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	nonNumericRe    = regexp.MustCompile(`[^0-9/.\-]`)
	monthDayYearRe  = regexp.MustCompile(`(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2,4})`)
	monthYearRe     = regexp.MustCompile(`(\d{1,2})[/.\-](\d{4})`)
)

// generalLayouts are the formats tried for the free-text parse step,
// roughly in order of how often they appear on the source page.
var generalLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2006-01-02",
	"January 2006",
	"Jan 2006",
	"1/2/2006",
	"01/02/2006",
}

// numericLayouts are retried after everything but digits and [/.-]
// separators has been stripped from the label.
var numericLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"1.2.2006",
	"1.2.06",
	"1-2-2006",
	"1-2-06",
	"2006-01-02",
}

// Resolve turns a free-text date label into a day-granularity UTC instant,
// or nil if no strategy succeeds. First success wins:
//
//  1. strip parenthetical annotations and collapse whitespace
//  2. general free-text parse
//  3. strip to digits and [/.-], retry
//  4. D/D/Y as month/day/year (two-digit years are 2000-based)
//  5. D/YYYY as month/year, first of month
//
// All paths construct the instant in UTC so range boundaries do not shift
// with the host timezone. Resolve is idempotent.
func Resolve(text string) *time.Time {
	if text == "" {
		return nil
	}

	cleaned := CleanDateText(text)
	if t, ok := parseLayouts(cleaned, generalLayouts); ok {
		return &t
	}

	numericOnly := strings.TrimSpace(nonNumericRe.ReplaceAllString(cleaned, ""))
	if numericOnly == "" {
		return nil
	}

	if t, ok := parseLayouts(numericOnly, numericLayouts); ok {
		return &t
	}

	if m := monthDayYearRe.FindStringSubmatch(numericOnly); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if t, ok := makeDate(year, month, day); ok {
			return &t
		}
	}

	if m := monthYearRe.FindStringSubmatch(numericOnly); m != nil {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		if t, ok := makeDate(year, month, 1); ok {
			return &t
		}
	}

	return nil
}

// CleanDateText strips parenthetical annotations like "(updated)" from a
// date label and collapses whitespace.
func CleanDateText(text string) string {
	return NormalizeWhitespace(parentheticalRe.ReplaceAllString(text, ""))
}

func parseLayouts(text string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// makeDate builds a UTC day-start instant, rejecting values that
// time.Date would silently normalize (e.g. month 13 or day 32).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
