package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteRuleInterval writes one closed rule activity interval.
//
// This is the primary export method: every time a rule stops matching,
// the orchestrator closes the interval and hands it here. The write is
// non-blocking; points are batched and sent asynchronously.
//
// Parameters:
//   - ruleID: Unique identifier of the rule
//   - ruleName: Human-readable rule name (low cardinality tag)
//   - startMS: Interval start, Unix epoch milliseconds
//   - endMS: Interval end, Unix epoch milliseconds
//
// Example:
//
//	client.WriteRuleInterval("a1b2", "camera busy", 1700000000000, 1700000090000)
func (c *Client) WriteRuleInterval(ruleID, ruleName string, startMS, endMS int64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"rule_activity",
		map[string]string{
			"rule_id":   ruleID,
			"rule_name": ruleName,
		},
		map[string]interface{}{
			"start_ms":    startMS,
			"duration_ms": endMS - startMS,
		},
		time.UnixMilli(endMS),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSignalChange writes a signal transition for offline analysis.
//
// Parameters:
//   - signal: Signal name (e.g., "camera")
//   - value: The new boolean value
func (c *Client) WriteSignalChange(signal string, value bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"signal",
		map[string]string{
			"name": signal,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
