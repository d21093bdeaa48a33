// Package entry defines the comment Entry record and the best-effort
// date resolver for the free-text date labels found on the source page.
//
// Entries are immutable once extracted; the working set is replaced
// wholesale on each successful parse. Date labels are inconsistently
// formatted free text, so resolution is a cascade of progressively
// looser strategies rather than a strict grammar.
package entry
