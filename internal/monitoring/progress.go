package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/magatfairy/crawlstats/internal/timeutil"
)

// Progress tracks the outcome counts of a batch analysis run. It is safe for
// concurrent use by the per-file workers.
type Progress struct {
	mu      sync.Mutex
	clock   timeutil.Clock
	started time.Time

	completed int
	skipped   int
	failed    int
}

// NewProgress creates a Progress starting now. A nil clock uses RealClock.
func NewProgress(clock timeutil.Clock) *Progress {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Progress{clock: clock, started: clock.Now()}
}

// Complete records a successfully analyzed input.
func (p *Progress) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
}

// Skip records an input that was recognized but not analyzable.
func (p *Progress) Skip() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skipped++
}

// Fail records an input whose analysis or write failed.
func (p *Progress) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed++
}

// Counts returns the completed, skipped and failed totals.
func (p *Progress) Counts() (completed, skipped, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed, p.skipped, p.failed
}

// Elapsed returns the time since the Progress was created.
func (p *Progress) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock.Since(p.started)
}

// Summary formats a one-line run report.
func (p *Progress) Summary() string {
	completed, skipped, failed := p.Counts()
	return fmt.Sprintf("%d analyzed, %d skipped, %d failed in %s",
		completed, skipped, failed, p.Elapsed().Round(time.Millisecond))
}
