// Package metrics tracks how long each rule has been the active rule.
//
// Every rule owns a ledger: a monotonic lifetime counter of active
// milliseconds plus a bounded list of recent intervals kept for rolling
// window queries. The interval list is pruned to a 365-day horizon and is
// an approximation for windows only — the lifetime total is the source of
// truth and never decreases, not even when intervals are pruned.
//
// Intervals with non-positive duration are silently ignored rather than
// rejected; clock skew and rapid rule toggling make them expected noise,
// not errors.
//
// The Store keys ledgers by rule ID and writes through to a repository.
// Metrics are lifetime-bound to their owning rule: deleting a rule
// deletes its ledger.
package metrics
