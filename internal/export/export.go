// Package export renders query result lists as CSV or PDF documents.
//
// Exports operate purely on the visible result list; they never reach
// back into the cache or the network. Each export kind carries an
// in-progress guard: a second trigger while one is running is refused,
// not queued.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/phantomworx/cq-intel/internal/entry"
)

// ErrInProgress is returned when an export of the same kind is already
// running.
var ErrInProgress = errors.New("export already in progress")

// Exporter writes entry lists to export formats, one at a time per kind.
type Exporter struct {
	csvBusy atomic.Bool
	pdfBusy atomic.Bool
}

// CSV writes the entries as CSV with a Date,Content header. Fields are
// quote-escaped; embedded newlines in content are preserved.
func (e *Exporter) CSV(w io.Writer, entries []entry.Entry) error {
	if !e.csvBusy.CompareAndSwap(false, true) {
		return ErrInProgress
	}
	defer e.csvBusy.Store(false)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Content"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, en := range entries {
		if err := cw.Write([]string{en.DateText, en.Content}); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
