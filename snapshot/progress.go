package snapshot

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker prints a single, rewritten status line while a run
// writes its entity artifacts.
type ProgressTracker struct {
	mu       sync.Mutex
	out      io.Writer
	total    int
	every    int
	written  int
	failed   int
	reported int
	start    time.Time
	running  bool
}

// NewProgressTracker reports to out after every `every` finished
// artifacts out of total. Values of every below 1 report each artifact.
func NewProgressTracker(out io.Writer, total, every int) *ProgressTracker {
	return &ProgressTracker{out: out, total: total, every: max(every, 1)}
}

// Start resets the counters and the clock.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.start = time.Now()
	p.running = true
	p.written, p.failed, p.reported = 0, 0, 0
}

// Done records one finished artifact. Calls before Start are ignored.
func (p *ProgressTracker) Done(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	if ok {
		p.written++
	} else {
		p.failed++
	}
	if p.finished()-p.reported >= p.every {
		p.print()
		p.reported = p.finished()
	}
}

// Counts returns the written and failed artifacts so far.
func (p *ProgressTracker) Counts() (written, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written, p.failed
}

// Finish prints the final line and ends it with a newline.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.print()
	fmt.Fprintln(p.out)
}

// Elapsed returns the time since Start, or zero before Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.start.IsZero() {
		return 0
	}
	return time.Since(p.start)
}

func (p *ProgressTracker) finished() int {
	return p.written + p.failed
}

// print must be called with the lock held.
func (p *ProgressTracker) print() {
	done := p.finished()
	pct := 100.0
	if p.total > 0 {
		pct = float64(done) / float64(p.total) * 100
	}
	rate := 0.0
	if secs := time.Since(p.start).Seconds(); secs > 0 {
		rate = float64(p.written) / secs
	}
	fmt.Fprintf(p.out, "\rProgress: %d/%d (%.1f%%) failed %d - %.1f artifacts/s",
		done, p.total, pct, p.failed, rate)
}
