// Package extract parses the source page's HTML table into comment entries.
//
// The page format is externally defined: one table row contains a marker
// phrase, and every row after it holds a bolded date label followed by
// freeform comment text. Extraction is tolerant: rows missing a bold
// element or carrying an unresolvable date are skipped, never errors.
package extract
