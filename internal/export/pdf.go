package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/phantomworx/cq-intel/internal/entry"
)

// Page geometry for the generated report (A4-ish portrait, points).
const (
	pdfMargin     = 50.0
	pdfTop        = 780.0
	pdfBottom     = 50.0
	pdfLineHeight = 14.0
	pdfWrapWidth  = 90
)

// pdfcpu's declarative create format: one font'd text element per line.
type pdfText struct {
	Value    string     `json:"value"`
	Position [2]float64 `json:"pos"`
	Font     pdfFont    `json:"font"`
}

type pdfFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type pdfContent struct {
	Text []pdfText `json:"text"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

type pdfDocument struct {
	Pages map[string]pdfPage `json:"pages"`
}

// PDF renders a report with a title block followed by one section per
// entry: the date label in bold, then the wrapped content.
func (e *Exporter) PDF(w io.Writer, title string, entries []entry.Entry) error {
	if !e.pdfBusy.CompareAndSwap(false, true) {
		return ErrInProgress
	}
	defer e.pdfBusy.Store(false)

	doc := newPDFBuilder()
	doc.line(title, "Helvetica-Bold", 16)
	doc.line("Generated: "+time.Now().UTC().Format("Jan 2, 2006"), "Helvetica", 10)
	doc.space()

	for _, en := range entries {
		dateLabel := en.DateText
		if dateLabel == "" {
			dateLabel = "Unknown date"
		}
		doc.line(dateLabel, "Helvetica-Bold", 11)
		for _, contentLine := range strings.Split(en.Content, "\n") {
			for _, wrapped := range wrapLine(contentLine, pdfWrapWidth) {
				doc.line(wrapped, "Helvetica", 10)
			}
		}
		doc.space()
	}

	data, err := json.Marshal(doc.document())
	if err != nil {
		return fmt.Errorf("encoding PDF description: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	if err := api.Create(nil, bytes.NewReader(data), w, conf); err != nil {
		return fmt.Errorf("creating PDF: %w", err)
	}
	return nil
}

// pdfBuilder lays text lines top-down, starting a new page when the
// cursor reaches the bottom margin.
type pdfBuilder struct {
	pages   map[string]pdfPage
	pageNum int
	cursorY float64
	current []pdfText
}

func newPDFBuilder() *pdfBuilder {
	return &pdfBuilder{
		pages:   make(map[string]pdfPage),
		pageNum: 1,
		cursorY: pdfTop,
	}
}

func (b *pdfBuilder) line(text, font string, size int) {
	if b.cursorY < pdfBottom {
		b.flushPage()
	}
	if text != "" {
		b.current = append(b.current, pdfText{
			Value:    text,
			Position: [2]float64{pdfMargin, b.cursorY},
			Font:     pdfFont{Name: font, Size: size},
		})
	}
	b.cursorY -= pdfLineHeight
}

func (b *pdfBuilder) space() {
	b.cursorY -= pdfLineHeight / 2
}

func (b *pdfBuilder) flushPage() {
	b.pages[strconv.Itoa(b.pageNum)] = pdfPage{Content: pdfContent{Text: b.current}}
	b.pageNum++
	b.current = nil
	b.cursorY = pdfTop
}

func (b *pdfBuilder) document() pdfDocument {
	b.flushPage()
	return pdfDocument{Pages: b.pages}
}

// wrapLine breaks a line into chunks of at most width characters on
// word boundaries; an overlong single word gets its own chunk.
func wrapLine(line string, width int) []string {
	if len(line) <= width {
		return []string{line}
	}

	var out []string
	var current strings.Builder
	for _, word := range strings.Fields(line) {
		if current.Len() > 0 && current.Len()+1+len(word) > width {
			out = append(out, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}
