package orchestrator

import (
	"fmt"
	"sync"
	"time"
)

// logRingCapacity bounds the decision log served by the logs command.
const logRingCapacity = 100

// logRing is a fixed-capacity ring of human-readable decision lines.
// It backs the control plane's logs query and is independent of the
// structured logger.
type logRing struct {
	mu      sync.Mutex
	entries []string
	next    int
	full    bool
}

func newLogRing(capacity int) *logRing {
	return &logRing{entries: make([]string, capacity)}
}

// addf appends a timestamped formatted line, evicting the oldest entry
// once the ring is full.
func (r *logRing) addf(now time.Time, format string, args ...any) {
	line := now.UTC().Format(time.RFC3339) + " " + fmt.Sprintf(format, args...)

	r.mu.Lock()
	r.entries[r.next] = line
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()
}

// lines returns the retained entries, oldest first.
func (r *logRing) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		out := make([]string, r.next)
		copy(out, r.entries[:r.next])
		return out
	}

	out := make([]string, 0, len(r.entries))
	out = append(out, r.entries[r.next:]...)
	out = append(out, r.entries[:r.next]...)
	return out
}
