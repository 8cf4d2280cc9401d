package orchestrator

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestLogRingOrder(t *testing.T) {
	r := newLogRing(4)
	now := time.Unix(1700000000, 0)

	r.addf(now, "first")
	r.addf(now, "second")

	lines := r.lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[0], "first") || !strings.HasSuffix(lines[1], "second") {
		t.Errorf("lines out of order: %v", lines)
	}
}

func TestLogRingEviction(t *testing.T) {
	r := newLogRing(3)
	now := time.Unix(1700000000, 0)

	for i := 0; i < 5; i++ {
		r.addf(now, "entry %d", i)
	}

	lines := r.lines()
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	for i, want := range []string{"entry 2", "entry 3", "entry 4"} {
		if !strings.HasSuffix(lines[i], want) {
			t.Errorf("lines[%d] = %q, want suffix %q", i, lines[i], want)
		}
	}
}

func TestLogRingTimestampPrefix(t *testing.T) {
	r := newLogRing(2)
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	r.addf(now, "hello")

	want := fmt.Sprintf("%s hello", now.Format(time.RFC3339))
	if lines := r.lines(); lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func TestLogRingEmpty(t *testing.T) {
	r := newLogRing(logRingCapacity)
	if lines := r.lines(); len(lines) != 0 {
		t.Errorf("lines = %v, want empty", lines)
	}
}
