package extract

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/phantomworx/cq-intel/internal/entry"
)

// MarkerText anchors extraction: the first table row containing this
// phrase marks the start of the comment rows. The phrase belongs to the
// scraped site and is not under our control.
const MarkerText = "Your CQ Line Pilot Comments will be placed here"

// brSentinel survives tag stripping so <br> positions can be restored
// as newlines afterwards.
const brSentinel = "|||BREAK|||"

var (
	brRe        = regexp.MustCompile(`(?i)<br\s*/?>`)
	stripPolicy = bluemonday.StrictPolicy()
)

// Entries extracts all comment entries from an HTML document.
//
// Returns an empty slice when the marker row is absent. Rows after the
// marker that lack a bold date holder, carry an unresolvable date, or
// reduce to empty content are skipped entirely.
func Entries(r io.Reader) ([]entry.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	rows := doc.Find("tr")

	markerIndex := -1
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if strings.Contains(entry.NormalizeWhitespace(row.Text()), MarkerText) {
			markerIndex = i
			return false
		}
		return true
	})
	if markerIndex == -1 {
		return []entry.Entry{}, nil
	}

	entries := make([]entry.Entry, 0)
	rows.Each(func(i int, row *goquery.Selection) {
		if i <= markerIndex {
			return
		}

		bold := row.Find("strong, b").First()
		if bold.Length() == 0 {
			return
		}

		dateText := entry.NormalizeWhitespace(bold.Text())
		date := entry.Resolve(dateText)
		if date == nil {
			return
		}

		content := rowContent(row, bold)
		if content == "" {
			return
		}

		entries = append(entries, entry.Entry{
			DateText: dateText,
			Date:     date,
			Content:  content,
		})
	})

	return entries, nil
}

// rowContent turns a row's markup into plain text with <br> preserved as
// newlines: the bold date holder's markup is removed, <br> tags become a
// sentinel, remaining tags are stripped, and the sentinel segments are
// whitespace-normalized and rejoined. Empty segments are kept so double
// breaks stay meaningful as blank lines.
func rowContent(row, bold *goquery.Selection) string {
	markup, err := row.Html()
	if err != nil {
		return ""
	}

	if boldMarkup, err := goquery.OuterHtml(bold); err == nil {
		markup = strings.Replace(markup, boldMarkup, "", 1)
	}

	markup = brRe.ReplaceAllString(markup, brSentinel)
	text := html.UnescapeString(stripPolicy.Sanitize(markup))

	segments := strings.Split(text, brSentinel)
	for i := range segments {
		segments[i] = entry.NormalizeWhitespace(segments[i])
	}

	return strings.TrimSpace(strings.Join(segments, "\n"))
}
