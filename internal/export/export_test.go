package export

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/phantomworx/cq-intel/internal/entry"
)

func TestCSV(t *testing.T) {
	d := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	entries := []entry.Entry{
		{DateText: "March 15, 2024", Date: &d, Content: "Simple comment."},
		{DateText: "3/20/24", Content: "Line one.\nLine two, with a comma and \"quotes\"."},
	}

	var buf bytes.Buffer
	var e Exporter
	if err := e.CSV(&buf, entries); err != nil {
		t.Fatalf("CSV returned error: %v", err)
	}

	want := "Date,Content\n" +
		"\"March 15, 2024\",Simple comment.\n" +
		"3/20/24,\"Line one.\nLine two, with a comma and \"\"quotes\"\".\"\n"
	if buf.String() != want {
		t.Errorf("CSV output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestCSVEmptyList(t *testing.T) {
	var buf bytes.Buffer
	var e Exporter
	if err := e.CSV(&buf, nil); err != nil {
		t.Fatalf("CSV returned error: %v", err)
	}
	if buf.String() != "Date,Content\n" {
		t.Errorf("expected header only, got %q", buf.String())
	}
}

func TestCSVInProgressGuard(t *testing.T) {
	var e Exporter
	e.csvBusy.Store(true)

	err := e.CSV(&bytes.Buffer{}, nil)
	if !errors.Is(err, ErrInProgress) {
		t.Errorf("expected ErrInProgress, got %v", err)
	}

	// The other kind is independent.
	e.pdfBusy.Store(true)
	e.csvBusy.Store(false)
	if err := e.CSV(&bytes.Buffer{}, nil); err != nil {
		t.Errorf("expected CSV guard independent of PDF guard, got %v", err)
	}
}

func TestCSVGuardReleasedAfterRun(t *testing.T) {
	var e Exporter
	var buf bytes.Buffer
	if err := e.CSV(&buf, nil); err != nil {
		t.Fatalf("CSV returned error: %v", err)
	}
	if err := e.CSV(&buf, nil); err != nil {
		t.Errorf("expected guard released after completion, got %v", err)
	}
}

func TestPDFInProgressGuard(t *testing.T) {
	var e Exporter
	e.pdfBusy.Store(true)

	err := e.PDF(&bytes.Buffer{}, "Title", nil)
	if !errors.Is(err, ErrInProgress) {
		t.Errorf("expected ErrInProgress, got %v", err)
	}
}

func TestWrapLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		width    int
		expected []string
	}{
		{
			name:     "short line untouched",
			line:     "fits easily",
			width:    20,
			expected: []string{"fits easily"},
		},
		{
			name:     "wraps on word boundary",
			line:     "alpha bravo charlie delta",
			width:    13,
			expected: []string{"alpha bravo", "charlie delta"},
		},
		{
			name:     "overlong word gets its own chunk",
			line:     "a superlongunbreakableword b",
			width:    10,
			expected: []string{"a", "superlongunbreakableword", "b"},
		},
		{
			name:     "empty line preserved",
			line:     "",
			width:    10,
			expected: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapLine(tt.line, tt.width)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("wrapLine(%q, %d) = %q, want %q", tt.line, tt.width, got, tt.expected)
			}
		})
	}
}

func TestPDFBuilderPagination(t *testing.T) {
	b := newPDFBuilder()
	span := pdfTop - pdfBottom
	lines := int(span/pdfLineHeight) + 10
	for i := 0; i < lines; i++ {
		b.line("line", "Helvetica", 10)
	}

	doc := b.document()
	if len(doc.Pages) < 2 {
		t.Errorf("expected overflow onto a second page, got %d page(s)", len(doc.Pages))
	}
	if _, ok := doc.Pages["1"]; !ok {
		t.Error("expected pages keyed by number starting at 1")
	}
}

func TestPDFBuilderSkipsEmptyText(t *testing.T) {
	b := newPDFBuilder()
	b.line("", "Helvetica", 10)
	b.line("real", "Helvetica", 10)

	doc := b.document()
	texts := doc.Pages["1"].Content.Text
	if len(texts) != 1 {
		t.Fatalf("expected 1 text element, got %d", len(texts))
	}
	if texts[0].Value != "real" {
		t.Errorf("unexpected text %q", texts[0].Value)
	}
	// The blank line still advanced the cursor.
	if texts[0].Position[1] != pdfTop-pdfLineHeight {
		t.Errorf("expected blank line to consume vertical space, got y=%v", texts[0].Position[1])
	}
}

func TestPDFWritesDocument(t *testing.T) {
	d := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	entries := []entry.Entry{
		{DateText: "March 15, 2024", Date: &d, Content: "A comment.\nSecond line."},
	}

	var buf bytes.Buffer
	var e Exporter
	if err := e.PDF(&buf, "CQ Line Pilot Comments", entries); err != nil {
		t.Fatalf("PDF returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Errorf("expected a PDF header, got %q", truncate(buf.String(), 16))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
