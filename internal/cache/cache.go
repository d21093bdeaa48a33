package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/phantomworx/cq-intel/internal/entry"
	"github.com/phantomworx/cq-intel/internal/logging"
)

const (
	// Version tags the storage key; bumping it invalidates every record
	// written under a prior version.
	Version = "v2"

	// TTL is how long a record counts as fresh.
	TTL = 24 * time.Hour

	filePrefix = "entries_"
	fileSuffix = ".json"
)

// Record is the persisted cache slot: the entry set from the last
// successful fetch+parse, when it was cached, and where it came from.
type Record struct {
	Entries   []entry.Entry `json:"entries"`
	Timestamp int64         `json:"timestamp"` // epoch milliseconds
	SourceURL string        `json:"sourceUrl"`

	// Stale marks records past the TTL that were returned anyway.
	Stale bool `json:"-"`
}

// Store manages the single versioned cache slot under a data directory.
type Store struct {
	dataDir   string
	lastSaved time.Time
	now       func() time.Time
}

// New creates a Store rooted at dataDir, expanding ~ and creating the
// directory if needed.
func New(dataDir string) (*Store, error) {
	expanded, err := homedir.Expand(dataDir)
	if err != nil {
		return nil, fmt.Errorf("expanding data directory: %w", err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dataDir: expanded, now: time.Now}, nil
}

// Dir returns the expanded data directory the store persists under.
func (s *Store) Dir() string {
	return s.dataDir
}

func (s *Store) recordPath() string {
	return filepath.Join(s.dataDir, filePrefix+Version+fileSuffix)
}

// LastSaved reports when entries were last cached in this session,
// zero if never. It reflects Save calls even when the durable write
// failed, so freshness status stays accurate.
func (s *Store) LastSaved() time.Time {
	return s.lastSaved
}

// Save persists the entry set. The in-memory last-saved time updates
// before the write is attempted. A failed write clears the store and
// retries once; a second failure is logged and swallowed.
func (s *Store) Save(entries []entry.Entry, sourceURL string) {
	now := s.now()
	s.lastSaved = now

	rec := Record{
		Entries:   entries,
		Timestamp: now.UnixMilli(),
		SourceURL: sourceURL,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		logging.Log.WithError(err).Error("cache: encoding record")
		return
	}

	if err := os.WriteFile(s.recordPath(), data, 0o644); err != nil {
		logging.Log.WithError(err).Warn("cache: write failed, clearing and retrying")
		s.Clear()
		s.lastSaved = now
		if err := os.WriteFile(s.recordPath(), data, 0o644); err != nil {
			logging.Log.WithError(err).Error("cache: write failed after clearing")
		}
	}
}

// Load returns the cached record, or nil for a missing, structurally
// invalid, or expired record. With allowStale, expired records are
// returned tagged Stale. Invalid records are evicted.
func (s *Store) Load(allowStale bool) *Record {
	s.evictOldVersions()

	data, err := os.ReadFile(s.recordPath())
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Log.WithError(err).Warn("cache: read failed")
		}
		return nil
	}

	rec, ok := decodeRecord(data)
	if !ok {
		logging.Log.Warn("cache: invalid record structure, evicting")
		s.Clear()
		return nil
	}

	age := s.now().Sub(time.UnixMilli(rec.Timestamp))
	if age > TTL {
		if !allowStale {
			logging.Log.WithField("age", age.Round(time.Minute)).Debug("cache: record expired")
			return nil
		}
		rec.Stale = true
	}

	s.lastSaved = time.UnixMilli(rec.Timestamp)
	return rec
}

// Clear removes the cache record. Failure to remove is logged only.
func (s *Store) Clear() {
	s.lastSaved = time.Time{}
	if err := os.Remove(s.recordPath()); err != nil && !os.IsNotExist(err) {
		logging.Log.WithError(err).Warn("cache: clear failed")
	}
}

// evictOldVersions removes sibling record files written under a
// different schema version.
func (s *Store) evictOldVersions() {
	current := filepath.Base(s.recordPath())
	dirEntries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return
	}
	for _, de := range dirEntries {
		name := de.Name()
		if name == current || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dataDir, name)); err == nil {
			logging.Log.WithField("file", name).Debug("cache: removed old version")
		}
	}
}
