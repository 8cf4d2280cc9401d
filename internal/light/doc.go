// Package light defines the value model for busylight output: colours,
// output modes, and the Action that pairs them with a timing period.
//
// Everything in this package is immutable data with no behaviour beyond
// parsing and lookup. The command grammar (internal/command), the rule
// engine (internal/rules) and the decision orchestrator all share these
// types, so the package deliberately has no dependencies of its own.
package light
