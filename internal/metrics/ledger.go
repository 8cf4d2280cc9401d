package metrics

// Window constants in milliseconds.
const (
	MillisPerDay   int64 = 86_400_000
	MillisPerMonth int64 = 30 * MillisPerDay
	MillisPerYear  int64 = 365 * MillisPerDay

	// retentionMS is the horizon beyond which recent intervals are
	// pruned. It matches the largest rolling window so pruning never
	// affects a window query.
	retentionMS = MillisPerYear
)

// Interval is a closed time range during which one rule was the winning
// rule. EndMS > StartMS always; zero or negative durations are never
// recorded.
type Interval struct {
	StartMS int64 `json:"start_ms"`
	EndMS   int64 `json:"end_ms"`
}

// RuleMetrics is the activity ledger for a single rule.
type RuleMetrics struct {
	// TotalActiveMS is the lifetime active counter. Monotonic
	// non-decreasing; pruning never touches it.
	TotalActiveMS int64 `json:"total_active_ms"`

	// RecentIntervals is the bounded interval history used for rolling
	// window queries, pruned to the retention horizon.
	RecentIntervals []Interval `json:"recent_intervals"`
}

// Summary is the aggregated view of a rule's activity.
type Summary struct {
	// TotalActiveMS is the lifetime active counter.
	TotalActiveMS int64 `json:"total_active_ms"`

	// PerDayMS is the raw trailing-24h active total.
	PerDayMS int64 `json:"per_day_ms"`

	// PerMonthMS is the true daily average over the trailing 30 days.
	PerMonthMS int64 `json:"per_month_ms"`

	// PerYearMS is the true daily average over the trailing 365 days.
	PerYearMS int64 `json:"per_year_ms"`
}

// RecordInterval adds a closed interval to the ledger.
//
// Intervals with endMS <= startMS are ignored: the ledger stays
// untouched and the lifetime counter never moves backwards. Otherwise
// the duration is added to TotalActiveMS and the interval is appended
// to RecentIntervals.
//
// Returns true if the interval was recorded.
func (m *RuleMetrics) RecordInterval(startMS, endMS int64) bool {
	if endMS <= startMS {
		return false
	}
	m.TotalActiveMS += endMS - startMS
	m.RecentIntervals = append(m.RecentIntervals, Interval{StartMS: startMS, EndMS: endMS})
	return true
}

// Prune drops intervals whose end is older than now minus the 365-day
// retention horizon. TotalActiveMS is untouched.
//
// Returns the number of intervals removed.
func (m *RuleMetrics) Prune(nowMS int64) int {
	cutoff := nowMS - retentionMS
	kept := m.RecentIntervals[:0]
	for _, iv := range m.RecentIntervals {
		if iv.EndMS >= cutoff {
			kept = append(kept, iv)
		}
	}
	removed := len(m.RecentIntervals) - len(kept)
	m.RecentIntervals = kept
	return removed
}

// ActiveMilliseconds sums the clamped intersection of each retained
// interval with [now-window, now]. Partial overlap counts
// proportionally, not all-or-nothing, so the result is monotonically
// non-decreasing in the window size.
func (m *RuleMetrics) ActiveMilliseconds(windowMS, nowMS int64) int64 {
	windowStart := nowMS - windowMS

	var total int64
	for _, iv := range m.RecentIntervals {
		start := iv.StartMS
		if start < windowStart {
			start = windowStart
		}
		end := iv.EndMS
		if end > nowMS {
			end = nowMS
		}
		if end > start {
			total += end - start
		}
	}
	return total
}

// Summarize aggregates the ledger at a point in time.
//
// The day figure is the raw trailing-24h total; the month and year
// figures are true daily averages over their windows.
func (m *RuleMetrics) Summarize(nowMS int64) Summary {
	return Summary{
		TotalActiveMS: m.TotalActiveMS,
		PerDayMS:      m.ActiveMilliseconds(MillisPerDay, nowMS),
		PerMonthMS:    m.ActiveMilliseconds(MillisPerMonth, nowMS) / 30,
		PerYearMS:     m.ActiveMilliseconds(MillisPerYear, nowMS) / 365,
	}
}

// Clone returns an independent copy of the ledger.
func (m *RuleMetrics) Clone() *RuleMetrics {
	if m == nil {
		return nil
	}
	cpy := RuleMetrics{TotalActiveMS: m.TotalActiveMS}
	if m.RecentIntervals != nil {
		cpy.RecentIntervals = make([]Interval, len(m.RecentIntervals))
		copy(cpy.RecentIntervals, m.RecentIntervals)
	}
	return &cpy
}
