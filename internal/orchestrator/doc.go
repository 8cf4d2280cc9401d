// Package orchestrator ties signals, rules, and manual overrides into
// one active lighting output.
//
// The Engine is the single owner of all decision state. Every evaluation
// runs under one mutex, so only one evaluation is ever in flight; a
// newer signal snapshot supersedes an older one rather than queuing
// behind it. The control-plane listener and the signal feed both
// serialise through the same lock.
//
// # Decision algorithm
//
// Disabled: no output. Rules mode off: the persisted manual action.
// Rules mode on: rules are scanned in list order and the first enabled
// rule whose canonical expression matches the live snapshot wins; no
// match is a normal idle state, not an error.
//
// The active rule is tracked as an explicit two-state machine, Idle or
// ActiveSince(ruleID, start). An interval opens on the evaluation where
// a rule first wins and closes, via the metrics recorder, on the
// evaluation where it stops winning — transitions are state-machine
// edges, never inferred by diffing snapshots, so they are testable
// without real timers.
//
// Device transmission is fire-and-forget: there is no acknowledgement
// protocol and transport failures are logged, never surfaced.
package orchestrator
