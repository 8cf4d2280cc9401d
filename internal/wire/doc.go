// Package wire encodes busylight output into the fixed 64-byte HID
// report the device firmware expects.
//
// The encoder produces a single-step "run forever" light program: one
// colour, maximum repeat count, buzzer muted. Pulse and blink animation
// is not expressed on the wire; the orchestrator realises those modes by
// issuing repeated solid-colour reports over time, so this package stays
// a total function over any colour with no failure path.
package wire
