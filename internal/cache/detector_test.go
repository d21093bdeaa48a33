package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestDetector(t *testing.T) *RefreshDetector {
	t.Helper()
	return NewRefreshDetector(t.TempDir())
}

func TestDetectorFirstCheckIsNotForced(t *testing.T) {
	d := newTestDetector(t)
	if d.Check() {
		t.Error("first check should not report a double refresh")
	}
	if _, err := os.Stat(d.path); err != nil {
		t.Errorf("expected state file written on first check: %v", err)
	}
}

func TestDetectorSecondCheckWithinThreshold(t *testing.T) {
	d := newTestDetector(t)
	base := time.Now()

	d.now = func() time.Time { return base }
	if d.Check() {
		t.Fatal("first check should not report a double refresh")
	}

	d.now = func() time.Time { return base.Add(5 * time.Second) }
	if !d.Check() {
		t.Error("second check within the threshold should report a double refresh")
	}
}

func TestDetectorCheckPastThreshold(t *testing.T) {
	d := newTestDetector(t)
	base := time.Now()

	d.now = func() time.Time { return base }
	d.Check()

	d.now = func() time.Time { return base.Add(RefreshThreshold + time.Second) }
	if d.Check() {
		t.Error("check past the threshold should not report a double refresh")
	}

	// The slow check rewrote the state file, so a quick follow-up is a
	// double refresh again.
	d.now = func() time.Time { return base.Add(RefreshThreshold + 3*time.Second) }
	if !d.Check() {
		t.Error("quick follow-up after a slow check should report a double refresh")
	}
}

func TestDetectorCorruptStateFile(t *testing.T) {
	d := newTestDetector(t)
	if err := os.WriteFile(d.path, []byte("not a number"), 0o644); err != nil {
		t.Fatalf("writing state file: %v", err)
	}

	if d.Check() {
		t.Error("corrupt state should not report a double refresh")
	}

	data, err := os.ReadFile(d.path)
	if err != nil {
		t.Fatalf("reading state file: %v", err)
	}
	if string(data) == "not a number" {
		t.Error("expected corrupt state file to be overwritten")
	}
}

func TestDetectorStateFileLocation(t *testing.T) {
	dir := t.TempDir()
	d := NewRefreshDetector(dir)
	if d.path != filepath.Join(dir, "last_fetch") {
		t.Errorf("unexpected state path %q", d.path)
	}
}
