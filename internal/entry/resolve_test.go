package entry

import (
	"testing"
	"time"
)

func utcDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected *time.Time
	}{
		{
			name:     "long month name",
			text:     "March 15, 2024",
			expected: ptr(utcDay(2024, time.March, 15)),
		},
		{
			name:     "abbreviated month name",
			text:     "Mar 15, 2024",
			expected: ptr(utcDay(2024, time.March, 15)),
		},
		{
			name:     "month name without comma",
			text:     "March 15 2024",
			expected: ptr(utcDay(2024, time.March, 15)),
		},
		{
			name:     "iso date",
			text:     "2024-03-15",
			expected: ptr(utcDay(2024, time.March, 15)),
		},
		{
			name:     "month and year only",
			text:     "March 2024",
			expected: ptr(utcDay(2024, time.March, 1)),
		},
		{
			name:     "slash date four digit year",
			text:     "3/15/2024",
			expected: ptr(utcDay(2024, time.March, 15)),
		},
		{
			name:     "slash date two digit year is 2000-based",
			text:     "2/20/24",
			expected: ptr(utcDay(2024, time.February, 20)),
		},
		{
			name:     "dotted date",
			text:     "3.15.2024",
			expected: ptr(utcDay(2024, time.March, 15)),
		},
		{
			name:     "dashed date",
			text:     "3-15-24",
			expected: ptr(utcDay(2024, time.March, 15)),
		},
		{
			name:     "parenthetical annotation stripped",
			text:     "2/20/24 (updated)",
			expected: ptr(utcDay(2024, time.February, 20)),
		},
		{
			name:     "surrounding words stripped for numeric retry",
			text:     "posted 3/15/2024 late",
			expected: ptr(utcDay(2024, time.March, 15)),
		},
		{
			name:     "numeric month and year",
			text:     "4/2024",
			expected: ptr(utcDay(2024, time.April, 1)),
		},
		{
			name:     "free text with no date",
			text:     "sometime last week",
			expected: nil,
		},
		{
			name:     "empty input",
			text:     "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			text:     "   ",
			expected: nil,
		},
		{
			name:     "impossible month rejected",
			text:     "13/40/2024",
			expected: nil,
		},
		{
			name:     "day overflow rejected",
			text:     "2/30/2024",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.text)

			if tt.expected == nil {
				if got != nil {
					t.Errorf("Resolve(%q) = %v, want nil", tt.text, got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Resolve(%q) = nil, want %v", tt.text, tt.expected)
			}
			if !got.Equal(*tt.expected) {
				t.Errorf("Resolve(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestResolveProducesUTCDayStart(t *testing.T) {
	got := Resolve("March 15, 2024")
	if got == nil {
		t.Fatal("expected a resolved date")
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", got.Location())
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("expected day-start instant, got %v", got)
	}
}

func TestResolveIdempotent(t *testing.T) {
	inputs := []string{"March 15, 2024", "2/20/24 (updated)", "4/2024"}
	for _, in := range inputs {
		first := Resolve(in)
		second := Resolve(in)
		if first == nil || second == nil {
			t.Fatalf("Resolve(%q) returned nil", in)
		}
		if !first.Equal(*second) {
			t.Errorf("Resolve(%q) not idempotent: %v vs %v", in, first, second)
		}
	}
}

func TestCleanDateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "strips parenthetical", text: "2/20/24 (updated)", expected: "2/20/24"},
		{name: "collapses whitespace", text: "March   15,\n2024", expected: "March 15, 2024"},
		{name: "multiple parentheticals", text: "(new) 3/1/24 (see below)", expected: "3/1/24"},
		{name: "plain text untouched", text: "March 15, 2024", expected: "March 15, 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanDateText(tt.text); got != tt.expected {
				t.Errorf("CleanDateText(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "collapses runs", text: "a  b\t\tc", expected: "a b c"},
		{name: "trims ends", text: "  hello  ", expected: "hello"},
		{name: "newlines become spaces", text: "one\ntwo\r\nthree", expected: "one two three"},
		{name: "empty stays empty", text: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeWhitespace(tt.text); got != tt.expected {
				t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}
