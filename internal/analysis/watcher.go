package analysis

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/magatfairy/crawlstats/internal/fsutil"
	"github.com/magatfairy/crawlstats/internal/monitoring"
	"github.com/magatfairy/crawlstats/internal/timeutil"
)

// Watcher periodically scans a directory for experiment documents and hands
// newly appearing ones to Process. Designed to run alongside a recording
// session so results appear as experiments land on disk.
type Watcher struct {
	FS       fsutil.FileSystem
	Clock    timeutil.Clock
	Dir      string
	Pattern  string        // glob within Dir, e.g. "*.json"
	Interval time.Duration // how often to scan
	Process  func(path string) error
	StopChan chan struct{}

	mu   sync.Mutex
	seen map[string]bool
}

// NewWatcher returns a watcher over dir matching "*.json" every 30 seconds.
func NewWatcher(fs fsutil.FileSystem, dir string, process func(string) error) *Watcher {
	return &Watcher{
		FS:       fs,
		Clock:    timeutil.RealClock{},
		Dir:      dir,
		Pattern:  "*.json",
		Interval: 30 * time.Second,
		Process:  process,
		StopChan: make(chan struct{}),
		seen:     make(map[string]bool),
	}
}

// Start runs the periodic scan loop in a goroutine.
func (w *Watcher) Start() {
	go func() {
		ticker := w.Clock.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C():
				if err := w.RunOnce(); err != nil {
					monitoring.Logf("watch scan error: %v", err)
				}
			case <-w.StopChan:
				return
			}
		}
	}()
}

// Stop requests the watcher to stop.
func (w *Watcher) Stop() {
	close(w.StopChan)
}

// IsResultDocument reports whether path names an analysis output rather
// than an experiment. Directory scans skip these so an output directory can
// be watched or re-scanned without feeding results back into the pipeline.
func IsResultDocument(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "_analysis.json") || base == "combined_analysis.json"
}

// RunOnce scans the directory once and processes files not seen before. A
// file is marked seen even when processing fails, so one bad document
// cannot wedge the loop.
func (w *Watcher) RunOnce() error {
	matches, err := w.FS.Glob(filepath.Join(w.Dir, w.Pattern))
	if err != nil {
		return fmt.Errorf("scanning %s: %w", w.Dir, err)
	}
	for _, path := range matches {
		if IsResultDocument(path) {
			continue
		}
		if w.markSeen(path) {
			continue
		}
		monitoring.Logf("watch: found %s", path)
		if err := w.Process(path); err != nil {
			monitoring.Logf("watch: processing %s failed: %v", path, err)
		}
	}
	return nil
}

// markSeen records path and reports whether it was already known.
func (w *Watcher) markSeen(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seen[path] {
		return true
	}
	w.seen[path] = true
	return false
}
