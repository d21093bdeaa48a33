package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// YearMonth is a calendar month with no day component.
type YearMonth struct {
	Year  int
	Month time.Month
}

// DateRange bounds entries at month granularity. Start denotes the first
// instant of its month; End denotes everything up to (but excluding) the
// first instant of the following month. Either bound may be nil.
type DateRange struct {
	Start *YearMonth
	End   *YearMonth
}

// ParseYearMonth parses "YYYY-MM". Malformed input returns nil: range
// components that fail to parse are treated as absent, never as errors.
func ParseYearMonth(s string) *YearMonth {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return nil
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return nil
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return nil
	}

	return &YearMonth{Year: year, Month: time.Month(month)}
}

// ParseRange builds a DateRange from "YYYY-MM" strings; either side may
// be empty or malformed, yielding an open bound on that side.
func ParseRange(start, end string) DateRange {
	return DateRange{Start: ParseYearMonth(start), End: ParseYearMonth(end)}
}

// FirstInstant returns the first instant of the month in UTC.
func (ym YearMonth) FirstInstant() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the first instant of the following month in UTC.
func (ym YearMonth) NextMonth() time.Time {
	return time.Date(ym.Year, ym.Month+1, 1, 0, 0, 0, 0, time.UTC)
}

// String renders the "YYYY-MM" form.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// IsEmpty reports whether neither bound is set.
func (r DateRange) IsEmpty() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether an instant falls within the range. A nil
// instant (unresolvable entry date) always passes the date filter.
// A range with Start after End contains nothing by construction; that is
// documented behavior, not a guarded error.
func (r DateRange) Contains(t *time.Time) bool {
	if t == nil {
		return true
	}
	if r.Start != nil && t.Before(r.Start.FirstInstant()) {
		return false
	}
	if r.End != nil && !t.Before(r.End.NextMonth()) {
		return false
	}
	return true
}
