package metrics

import "fmt"

// Duration unit boundaries, coarsest-first thresholds.
const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// FormatDuration renders a millisecond count using the coarsest unit
// whose magnitude is at least 1:
//
//	ms (< 1s), s (< 60s), min (< 60min), h (< 24h),
//	d (< 30d), mo (< 12mo), y
//
// Negative inputs render as 0ms.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}

	switch {
	case ms < msPerSecond:
		return fmt.Sprintf("%dms", ms)
	case ms < msPerMinute:
		return fmt.Sprintf("%ds", ms/msPerSecond)
	case ms < msPerHour:
		return fmt.Sprintf("%dmin", ms/msPerMinute)
	case ms < MillisPerDay:
		return fmt.Sprintf("%dh", ms/msPerHour)
	case ms < MillisPerMonth:
		return fmt.Sprintf("%dd", ms/MillisPerDay)
	case ms < 12*MillisPerMonth:
		return fmt.Sprintf("%dmo", ms/MillisPerMonth)
	default:
		return fmt.Sprintf("%dy", ms/MillisPerYear)
	}
}
