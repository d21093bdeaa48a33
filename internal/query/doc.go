// Package query combines the working entry set with a month-granularity
// date range, search terms, search scope, and sort order to produce the
// visible result list.
//
// All operations are pure functions over already-extracted entries; they
// never mutate their input and never fail on malformed filter values
// (an unparseable range component simply means "no filter").
package query
