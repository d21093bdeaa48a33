// Package cache persists the last successfully fetched and parsed entry
// set as a versioned, expiring JSON record.
//
// Records older than the TTL can still be served when the caller allows
// stale data, enabling optimistic rendering while a refresh runs. A
// structurally invalid record is evicted silently; persistence failures
// are logged and never surfaced, since the in-memory working set stays
// authoritative for the session either way.
package cache
