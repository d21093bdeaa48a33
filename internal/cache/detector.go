package cache

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/phantomworx/cq-intel/internal/logging"
)

// RefreshThreshold is the window within which a repeated fetch attempt
// counts as an explicit request to bypass the cache.
const RefreshThreshold = 15 * time.Second

// RefreshDetector spots rapid repeated fetch attempts. It records the
// instant of each attempt in a small state file; a second attempt within
// the threshold of the first reports true, which callers treat as a
// forced refresh.
type RefreshDetector struct {
	path      string
	threshold time.Duration
	now       func() time.Time
}

// NewRefreshDetector creates a detector persisting under dataDir.
func NewRefreshDetector(dataDir string) *RefreshDetector {
	return &RefreshDetector{
		path:      filepath.Join(dataDir, "last_fetch"),
		threshold: RefreshThreshold,
		now:       time.Now,
	}
}

// Check reports whether this attempt follows another one within the
// threshold. When it does not, the current instant is recorded for the
// next call. State file problems report false and are logged only.
func (d *RefreshDetector) Check() bool {
	now := d.now()

	data, err := os.ReadFile(d.path)
	if err == nil {
		last, parseErr := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
		if parseErr == nil && now.Sub(time.UnixMilli(last)) < d.threshold {
			logging.Log.Debug("refresh detector: double refresh, forcing cache bypass")
			return true
		}
	} else if !os.IsNotExist(err) {
		logging.Log.WithError(err).Warn("refresh detector: read failed")
		return false
	}

	if err := os.WriteFile(d.path, []byte(strconv.FormatInt(now.UnixMilli(), 10)), 0o644); err != nil {
		logging.Log.WithError(err).Warn("refresh detector: write failed")
	}
	return false
}
