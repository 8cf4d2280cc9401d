// Package rules provides the rule model for busylight automation.
//
// A Rule binds a boolean Expression over live signals to a lighting
// Action. Rules are evaluated in list (priority) order by the decision
// orchestrator; the first enabled rule whose expression matches the
// current signal snapshot wins.
//
// # Expression invariants
//
// Expressions are kept structurally valid by construction:
//
//   - At most one condition per signal, stored in canonical signal order
//     (microphone, camera, screen recording, music).
//   - A single uniform logical operator: operators are stored per link
//     for forward compatibility, but every entry is identical, so mixed
//     AND/OR can never occur and evaluation is a single left fold.
//   - len(Operators) == max(0, len(Conditions)-1) after every mutation.
//
// Canonicalize is the unique normal form: duplicate signals resolve via
// last-write-wins on the expected value, then conditions are reordered.
// All mutators preserve the invariants, so no post-hoc validation path
// exists for expressions.
//
// # Key Types
//
//   - Signal: a boolean live OS/device state supplied as a snapshot
//   - Expression: canonical predicate with invariant-preserving mutators
//   - Rule: named, enable-able predicate-to-action binding
//   - Registry: thread-safe in-memory cache wrapping Repository
//
// # Thread Safety
//
// Registry is safe for concurrent use. Expression values are plain data;
// callers own their synchronisation.
package rules
